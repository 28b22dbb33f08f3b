package model

import "time"

type ListStatus string

const (
	StatusPlanning  ListStatus = "planning"
	StatusStaging   ListStatus = "staging"
	StatusInstalled ListStatus = "installed"
	StatusUnstaged  ListStatus = "unstaged"
)

type ListType string

const (
	TypePullList      ListType = "pull_list"
	TypeInstalledList ListType = "installed_list"
)

// List represents a pull list or an installed list, identified by the
// address it is destined for.
type List struct {
	ID            string     `json:"id"`
	Address       string     `json:"address"`
	Client        string     `json:"client"`
	InstallDate   *time.Time `json:"installDate,omitempty"`
	UninstallDate *time.Time `json:"uninstallDate,omitempty"`
	Status        ListStatus `json:"status"`
	RoomIDs       []string   `json:"roomIds"`
	ListType      ListType   `json:"listType"`
	CreatedDate   time.Time  `json:"createdDate"`
}

// allowedTransitions holds the metadata-only status moves. The
// staging -> installed conversion is not here: it creates a new list via the
// reservation engine rather than mutating the original's status.
var allowedTransitions = map[ListStatus][]ListStatus{
	StatusPlanning:  {StatusStaging},
	StatusStaging:   {StatusPlanning},
	StatusInstalled: {StatusUnstaged},
}

// CanTransition reports whether a list status may move from one state to
// another through a metadata-only update.
func CanTransition(from, to ListStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Collection returns the collection a list of this type is stored in.
func (l *List) Collection() string {
	if l.ListType == TypeInstalledList {
		return CollectionInstalledLists
	}
	return CollectionPullLists
}
