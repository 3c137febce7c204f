package catalog

import (
	"testing"

	"ruangkampus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAcrossLocales(t *testing.T) {
	c := Default()

	tests := []struct {
		name   string
		wantID string
	}{
		{"Ruang Seminar A", "seminar-a"},
		{"Seminar Room A", "seminar-a"},
		{"seminar room a", "seminar-a"},
		{"  LABORATORIUM BASIS DATA & BIG DATA  ", "lab-database"},
		{"Database & Big Data Laboratory", "lab-database"},
	}

	for _, tt := range tests {
		room, ok := c.Resolve(tt.name)
		require.True(t, ok, "expected %q to resolve", tt.name)
		assert.Equal(t, tt.wantID, room.ID)
	}
}

func TestResolveUnknownRoom(t *testing.T) {
	c := Default()

	_, ok := c.Resolve("Ruang Rahasia")
	assert.False(t, ok)
	assert.False(t, c.Contains(""))
}

func TestNamesOrderedBySortOrder(t *testing.T) {
	c := New([]models.Room{
		{ID: "b", NameID: "Ruang B", NameEN: "Room B", SortOrder: 2},
		{ID: "a", NameID: "Ruang A", NameEN: "Room A", SortOrder: 1},
	})

	assert.Equal(t, []string{"Ruang A", "Ruang B"}, c.Names("id"))
	assert.Equal(t, []string{"Room A", "Room B"}, c.Names("en"))
}

func TestByID(t *testing.T) {
	c := Default()

	room, ok := c.ByID("auditorium-main")
	require.True(t, ok)
	assert.Equal(t, "Auditorium Utama (Kapasitas 500)", room.NameID)

	_, ok = c.ByID("missing")
	assert.False(t, ok)
}
