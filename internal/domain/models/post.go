// internal/domain/models/post.go
package models

import (
	"time"
)

// Post is a shared set of photographed notes inside a group.
//
// NOTE:
//   - AuthorName is a denormalized snapshot taken at creation time; it is
//     not live-updated if the author renames themselves.
//   - Date is the user-chosen class date, distinct from CreatedAt which is
//     the server-assigned feed sort key (descending).
//   - PhotoURLs is ordered by upload submission order and append-only
//     except for whole-post deletion.
type Post struct {
	ID          string     `bson:"_id" json:"id"`
	GroupID     string     `bson:"group_id" json:"group_id"`
	AuthorID    string     `bson:"author_id" json:"author_id"`
	AuthorName  string     `bson:"author_name" json:"author_name"`
	Subject     string     `bson:"subject" json:"subject"`
	Date        time.Time  `bson:"date" json:"date"`
	Description string     `bson:"description" json:"description"`
	PhotoURLs   []string   `bson:"photo_urls" json:"photo_urls"`
	Comments    []Comment  `bson:"comments" json:"comments"`
	Reactions   []Reaction `bson:"reactions" json:"reactions"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
}

// Comment is an append-only entry on a post.
type Comment struct {
	ID         string    `bson:"id" json:"id"`
	AuthorID   string    `bson:"author_id" json:"author_id"`
	AuthorName string    `bson:"author_name" json:"author_name"`
	Text       string    `bson:"text" json:"text"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// Reaction is one emoji bucket on a post. At most one Reaction per
// distinct emoji; UserIDs is a set (no duplicates).
type Reaction struct {
	Emoji   string   `bson:"emoji" json:"emoji"`
	UserIDs []string `bson:"user_ids" json:"user_ids"`
}
