// internal/domain/models/group.go
package models

import (
	"time"
)

// Group represents a class group that members join with an invite code.
//
// NOTE:
//   - Members is stored as an array but is semantically a set: no
//     duplicates, order not meaningful. All membership edits go through
//     the membership store so that Members and User.Groups stay in sync.
//   - CustomSubjects is append-only; names are unique case-insensitively
//     across built-in and custom subjects.
type Group struct {
	ID         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	School     string    `bson:"school" json:"school"`
	InviteCode string    `bson:"invite_code" json:"invite_code"`
	Members    []string  `bson:"members" json:"members"`
	CreatedBy  string    `bson:"created_by" json:"created_by"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`

	CustomSubjects []CustomSubject `bson:"custom_subjects,omitempty" json:"custom_subjects,omitempty"`
}

// CustomSubject is a group-scoped subject added by members alongside the
// built-in subject set.
type CustomSubject struct {
	Name  string `bson:"name" json:"name"`
	Color string `bson:"color" json:"color"`
	Icon  string `bson:"icon" json:"icon"`
}

// HasMember reports whether userID is in the member set.
func (g Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
