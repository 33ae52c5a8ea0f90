// internal/domain/models/request.go
package models

import (
	"time"
)

// Request status values. A request starts open and becomes fulfilled when
// a response is appended or when the author resolves it manually. There is
// no reopening transition.
const (
	RequestOpen      = "open"
	RequestFulfilled = "fulfilled"
)

// IsValidRequestStatus reports whether s is a known request status.
// Unknown statuses cause the containing document to be dropped from feed
// snapshots rather than failing the whole read.
func IsValidRequestStatus(s string) bool {
	return s == RequestOpen || s == RequestFulfilled
}

// NoteRequest asks peers for notes that the author is missing.
//
// TargetUserID/TargetUserName are empty when the request is addressed to
// the whole group.
type NoteRequest struct {
	ID             string     `bson:"_id" json:"id"`
	GroupID        string     `bson:"group_id" json:"group_id"`
	AuthorID       string     `bson:"author_id" json:"author_id"`
	AuthorName     string     `bson:"author_name" json:"author_name"`
	Subject        string     `bson:"subject" json:"subject"`
	Date           time.Time  `bson:"date" json:"date"`
	Description    string     `bson:"description" json:"description"`
	TargetUserID   string     `bson:"target_user_id,omitempty" json:"target_user_id,omitempty"`
	TargetUserName string     `bson:"target_user_name,omitempty" json:"target_user_name,omitempty"`
	Status         string     `bson:"status" json:"status"`
	Responses      []Response `bson:"responses" json:"responses"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
}

// Response is an append-only reply carrying the photographed notes.
type Response struct {
	ID         string    `bson:"id" json:"id"`
	AuthorID   string    `bson:"author_id" json:"author_id"`
	AuthorName string    `bson:"author_name" json:"author_name"`
	PhotoURLs  []string  `bson:"photo_urls" json:"photo_urls"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
