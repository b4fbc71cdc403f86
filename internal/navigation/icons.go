// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package navigation

// Icon is a renderable icon handle. Sprite is the symbol id in the site's
// SVG sprite sheet.
type Icon struct {
	Name   string `json:"name"`
	Sprite string `json:"sprite"`
}

// IconRegistry is a closed set of icons keyed by kebab-case name.
type IconRegistry map[string]Icon

// Resolve returns the icon registered under name, or nil. Unknown names
// are not an error and never fall back to a default glyph.
func (r IconRegistry) Resolve(name string) *Icon {
	if name == "" || r == nil {
		return nil
	}
	icon, ok := r[name]
	if !ok {
		return nil
	}
	return &icon
}

// ResolvePtr is Resolve for nullable names.
func (r IconRegistry) ResolvePtr(name *string) *Icon {
	if name == nil {
		return nil
	}
	return r.Resolve(*name)
}

// Len returns the number of registered icons.
func (r IconRegistry) Len() int {
	return len(r)
}

// DefaultIcons returns the built-in registry used by the church site theme.
func DefaultIcons() IconRegistry {
	sprites := map[string]string{
		"book-open":      "icon-book-open",
		"bible":          "icon-book-open",
		"book":           "icon-book",
		"church":         "icon-church",
		"cross":          "icon-cross",
		"users":          "icon-users",
		"user":           "icon-user",
		"baby":           "icon-baby",
		"heart":          "icon-heart",
		"hand-heart":     "icon-hand-heart",
		"hands-helping":  "icon-hand-heart",
		"gift":           "icon-gift",
		"calendar":       "icon-calendar",
		"clock":          "icon-clock",
		"map-pin":        "icon-map-pin",
		"map":            "icon-map",
		"phone":          "icon-phone",
		"mail":           "icon-mail",
		"music":          "icon-music",
		"mic":            "icon-mic",
		"video":          "icon-video",
		"play-circle":    "icon-play-circle",
		"radio":          "icon-radio",
		"coffee":         "icon-coffee",
		"globe":          "icon-globe",
		"home":           "icon-home",
		"info":           "icon-info",
		"search":         "icon-search",
		"sparkles":       "icon-sparkles",
		"graduation-cap": "icon-graduation-cap",
		"message-circle": "icon-message-circle",
		"newspaper":      "icon-newspaper",
		"external-link":  "icon-external-link",
		"droplet":        "icon-droplet",
		"sun":            "icon-sun",
	}

	r := make(IconRegistry, len(sprites))
	for name, sprite := range sprites {
		r[name] = Icon{Name: name, Sprite: sprite}
	}
	return r
}
