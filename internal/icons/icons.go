// Package icons holds the closed set of glyph identifiers content may
// reference.
package icons

import (
	"errors"
	"fmt"
	"strings"
)

// Icon names a glyph the site can render.
type Icon string

const (
	Phone     Icon = "phone"
	Email     Icon = "email"
	Location  Icon = "location"
	WhatsApp  Icon = "whatsapp"
	Facebook  Icon = "facebook"
	Instagram Icon = "instagram"
	Twitter   Icon = "twitter"
	LinkedIn  Icon = "linkedin"
	YouTube   Icon = "youtube"
	Clock     Icon = "clock"
	Building  Icon = "building"
	Award     Icon = "award"
	Users     Icon = "users"
	Briefcase Icon = "briefcase"
)

// ErrUnknown is returned for keys outside the enumeration.
var ErrUnknown = errors.New("icons: unknown icon")

var all = []Icon{
	Phone, Email, Location, WhatsApp, Facebook, Instagram, Twitter,
	LinkedIn, YouTube, Clock, Building, Award, Users, Briefcase,
}

var byName = func() map[string]Icon {
	m := make(map[string]Icon, len(all))
	for _, icon := range all {
		m[string(icon)] = icon
	}
	return m
}()

// Parse returns the icon named by key. Matching ignores case and
// surrounding space; anything else outside the set is rejected.
func Parse(key string) (Icon, error) {
	if icon, ok := byName[strings.ToLower(strings.TrimSpace(key))]; ok {
		return icon, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknown, key)
}

// All returns every icon in declaration order.
func All() []Icon {
	out := make([]Icon, len(all))
	copy(out, all)
	return out
}

func (i Icon) String() string { return string(i) }
