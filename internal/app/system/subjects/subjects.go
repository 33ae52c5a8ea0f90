// internal/app/system/subjects/subjects.go

// Package subjects resolves subject names against the built-in subject set
// and a group's custom subjects.
//
// A subject on a post or request is stored as a free-form string. At read
// time it is resolved to either a built-in subject or a group-scoped
// custom one; names are compared case-insensitively using the same folding
// as the rest of the app.
package subjects

import (
	"strings"

	"github.com/dalemusser/notehive/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// Subject is the resolved view of a subject name: the built-in entry, the
// group's custom entry, or a default style for names that match neither.
type Subject struct {
	Name   string
	Color  string
	Icon   string
	Custom bool
}

// BuiltIn is the fixed subject set every group starts with.
var BuiltIn = []Subject{
	{Name: "Hindi", Color: "orange", Icon: "book"},
	{Name: "English", Color: "blue", Icon: "book"},
	{Name: "Mathematics", Color: "red", Icon: "function"},
	{Name: "Science", Color: "green", Icon: "flask"},
	{Name: "Social Science", Color: "brown", Icon: "globe"},
	{Name: "Sanskrit", Color: "yellow", Icon: "scroll"},
	{Name: "Computer Science", Color: "purple", Icon: "laptop"},
	{Name: "Physical Education", Color: "teal", Icon: "run"},
}

// defaultStyle is used when a stored subject name matches neither the
// built-in set nor the group's custom list.
var defaultStyle = Subject{Color: "gray", Icon: "book"}

// IsBuiltIn reports whether name matches a built-in subject
// case-insensitively.
func IsBuiltIn(name string) bool {
	folded := text.Fold(name)
	for _, s := range BuiltIn {
		if text.Fold(s.Name) == folded {
			return true
		}
	}
	return false
}

// Resolve looks up name against the built-in set first, then the group's
// custom subjects, falling back to the default style with the stored name
// preserved.
func Resolve(name string, custom []models.CustomSubject) Subject {
	folded := text.Fold(name)
	for _, s := range BuiltIn {
		if text.Fold(s.Name) == folded {
			return s
		}
	}
	for _, c := range custom {
		if text.Fold(c.Name) == folded {
			return Subject{Name: c.Name, Color: c.Color, Icon: c.Icon, Custom: true}
		}
	}
	out := defaultStyle
	out.Name = name
	return out
}

// Known reports whether name resolves to a built-in or custom subject.
// Feed decoding drops documents whose subject is not known.
func Known(name string, custom []models.CustomSubject) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	folded := text.Fold(name)
	for _, s := range BuiltIn {
		if text.Fold(s.Name) == folded {
			return true
		}
	}
	for _, c := range custom {
		if text.Fold(c.Name) == folded {
			return true
		}
	}
	return false
}

// Taken reports whether name collides case-insensitively with a built-in
// subject or an existing custom subject. Used to reject duplicate custom
// subject submissions.
func Taken(name string, custom []models.CustomSubject) bool {
	if IsBuiltIn(name) {
		return true
	}
	folded := text.Fold(name)
	for _, c := range custom {
		if text.Fold(c.Name) == folded {
			return true
		}
	}
	return false
}
