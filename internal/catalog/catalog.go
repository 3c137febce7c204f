package catalog

import (
	"sort"
	"strings"

	"ruangkampus/internal/models"
)

// Catalog is the closed set of bookable rooms. Display names exist per
// locale, but every lookup resolves to the stable room ID so that records
// never depend on the language the form was shown in.
type Catalog struct {
	rooms  []models.Room
	byID   map[string]models.Room
	byName map[string]models.Room // lowercased localized name -> room
}

func New(rooms []models.Room) *Catalog {
	c := &Catalog{
		rooms:  make([]models.Room, len(rooms)),
		byID:   make(map[string]models.Room, len(rooms)),
		byName: make(map[string]models.Room, len(rooms)*2),
	}
	copy(c.rooms, rooms)
	sort.SliceStable(c.rooms, func(i, j int) bool {
		if c.rooms[i].SortOrder == c.rooms[j].SortOrder {
			return c.rooms[i].ID < c.rooms[j].ID
		}
		return c.rooms[i].SortOrder < c.rooms[j].SortOrder
	})

	for _, room := range c.rooms {
		c.byID[room.ID] = room
		if room.NameID != "" {
			c.byName[strings.ToLower(room.NameID)] = room
		}
		if room.NameEN != "" {
			c.byName[strings.ToLower(room.NameEN)] = room
		}
	}
	return c
}

// Resolve matches a submitted room name against any locale,
// case-insensitively, and returns the canonical room.
func (c *Catalog) Resolve(name string) (models.Room, bool) {
	room, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return room, ok
}

// Contains reports whether name belongs to the catalog in any locale.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.Resolve(name)
	return ok
}

// ByID returns the room with the given stable identifier.
func (c *Catalog) ByID(id string) (models.Room, bool) {
	room, ok := c.byID[id]
	return room, ok
}

// Names returns the ordered display names for one locale.
func (c *Catalog) Names(locale string) []string {
	names := make([]string, 0, len(c.rooms))
	for _, room := range c.rooms {
		names = append(names, room.Name(locale))
	}
	return names
}

// Rooms returns a copy of the ordered catalog entries.
func (c *Catalog) Rooms() []models.Room {
	out := make([]models.Room, len(c.rooms))
	copy(out, c.rooms)
	return out
}

// Len returns the number of rooms in the catalog.
func (c *Catalog) Len() int {
	return len(c.rooms)
}
