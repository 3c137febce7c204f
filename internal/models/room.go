package models

// Room is one entry of the bookable-room catalog. The catalog is supplied
// by configuration and treated as a closed enumeration; records reference a
// room by its stable ID, never by a localized display name.
type Room struct {
	ID        string `yaml:"id" json:"id"`
	NameID    string `yaml:"name_id" json:"name_id"` // Bahasa Indonesia display name
	NameEN    string `yaml:"name_en" json:"name_en"` // English display name
	SortOrder int64  `yaml:"sort_order" json:"sort_order"`
}

// Name returns the display name for a locale, falling back to Indonesian.
func (r Room) Name(locale string) string {
	if locale == "en" && r.NameEN != "" {
		return r.NameEN
	}
	return r.NameID
}
