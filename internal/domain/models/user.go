// internal/domain/models/user.go
package models

import (
	"time"
)

// User is the profile document for an authenticated member.
//
// The ID is the opaque user id issued by the external identity provider;
// NoteHive never mints or interprets it. Groups carries the other side of
// the group-membership invariant: for every g in Groups, the group g's
// members array contains this user's ID.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Groups    []string  `bson:"groups" json:"groups"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
