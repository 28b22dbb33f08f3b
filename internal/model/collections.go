package model

import "fmt"

// Document collections. Each list document owns a rooms sub-collection keyed
// by room id; sub-collection paths are encoded as "<collection>/<id>/rooms".
const (
	CollectionModels         = "models"
	CollectionItems          = "items"
	CollectionPullLists      = "pull_lists"
	CollectionInstalledLists = "installed_lists"
)

// RoomsCollection returns the sub-collection path holding a list's rooms.
func RoomsCollection(listCollection, listID string) string {
	return fmt.Sprintf("%s/%s/rooms", listCollection, listID)
}
