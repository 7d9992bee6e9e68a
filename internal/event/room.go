package event

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyRoomName is returned when creating a room without a name.
var ErrEmptyRoomName = errors.New("room name cannot be empty")

// Room is a physical space sessions are assigned to. SortOrder controls the
// column order on the day grid; ties break on name so the layout is stable.
type Room struct {
	ID        string
	Name      string
	SortOrder int
	CreatedAt time.Time
}

// NewRoom creates a new Room with validation and a fresh ID.
func NewRoom(name string, sortOrder int) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyRoomName
	}
	return &Room{
		ID:        uuid.NewString(),
		Name:      name,
		SortOrder: sortOrder,
		CreatedAt: time.Now(),
	}, nil
}

// SortRooms orders rooms for display: SortOrder, then Name, then ID.
// The input slice is sorted in place and returned.
func SortRooms(rooms []*Room) []*Room {
	sort.SliceStable(rooms, func(i, j int) bool {
		a, b := rooms[i], rooms[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return rooms
}

// RoomNames returns a lookup from room ID to display name.
func RoomNames(rooms []*Room) map[string]string {
	names := make(map[string]string, len(rooms))
	for _, r := range rooms {
		names[r.ID] = r.Name
	}
	return names
}
