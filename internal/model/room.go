package model

import "fmt"

// Room is a named subdivision of a list holding the items destined for one
// location. ItemModelIDMap maps itemId -> modelId for every item assigned to
// the room; SelectedItemIDSet marks the subset currently flagged for commit.
type Room struct {
	ID                string            `json:"id"`
	RoomName          string            `json:"roomName"`
	ListID            string            `json:"listId"`
	ItemModelIDMap    map[string]string `json:"itemModelIdMap"`
	SelectedItemIDSet map[string]bool   `json:"selectedItemIdSet"`
}

func NewRoom(id, name, listID string) *Room {
	return &Room{
		ID:                id,
		RoomName:          name,
		ListID:            listID,
		ItemModelIDMap:    make(map[string]string),
		SelectedItemIDSet: make(map[string]bool),
	}
}

// Validate checks the selection-subset invariant:
// SelectedItemIDSet must be a subset of ItemModelIDMap's keys.
func (r *Room) Validate() error {
	for itemID := range r.SelectedItemIDSet {
		if _, ok := r.ItemModelIDMap[itemID]; !ok {
			return fmt.Errorf("room %s: selected item %s is not a member", r.ID, itemID)
		}
	}
	return nil
}

// SelectedItems returns the (itemId, modelId) pairs marked for commit.
func (r *Room) SelectedItems() map[string]string {
	out := make(map[string]string, len(r.SelectedItemIDSet))
	for itemID, selected := range r.SelectedItemIDSet {
		if !selected {
			continue
		}
		if modelID, ok := r.ItemModelIDMap[itemID]; ok {
			out[itemID] = modelID
		}
	}
	return out
}
