// Package identity derives deterministic ids and generates fresh ones.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh globally unique id.
func NewID() string {
	return uuid.New().String()
}

// normalizeRoomName lowercases, trims, and collapses internal whitespace so
// name-equivalent strings produce the same id.
func normalizeRoomName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// RoomID derives a room id from its owning list id and its name. Two calls
// with names differing only in case or whitespace yield the same id; room
// name collisions within a list are detected by id equality, without a query.
func RoomID(listID, roomName string) string {
	return listID + "_" + normalizeRoomName(roomName)
}

// RoomNameExists reports whether a candidate room name collides with any of
// the existing room ids under the same list.
func RoomNameExists(listID, candidate string, existingIDs []string) bool {
	id := RoomID(listID, candidate)
	for _, existing := range existingIDs {
		if existing == id {
			return true
		}
	}
	return false
}
