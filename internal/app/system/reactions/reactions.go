// internal/app/system/reactions/reactions.go

// Package reactions implements the pure toggle logic for emoji reaction
// buckets on a post.
//
// Toggle is computed from the caller's last-known reaction list and the
// result replaces the whole reactions field on write. Two users toggling
// the same emoji concurrently can therefore lose one update; that race is
// accepted and not detected here.
package reactions

import (
	"github.com/dalemusser/notehive/internal/domain/models"
)

// Toggle flips userID's membership in the bucket for emoji and returns the
// updated list. The input is not mutated.
//
// Rules:
//   - no bucket for emoji: create one containing only userID
//   - bucket contains userID: remove userID; drop the bucket if it empties
//   - bucket exists without userID: add userID
//
// At most one bucket per emoji is preserved, and a bucket never contains
// duplicate user ids.
func Toggle(list []models.Reaction, emoji, userID string) []models.Reaction {
	out := make([]models.Reaction, 0, len(list)+1)
	found := false

	for _, r := range list {
		if r.Emoji != emoji {
			out = append(out, cloneReaction(r))
			continue
		}
		found = true

		users := make([]string, 0, len(r.UserIDs))
		removed := false
		for _, u := range r.UserIDs {
			if u == userID {
				removed = true
				continue
			}
			users = append(users, u)
		}
		if !removed {
			users = append(users, userID)
		}
		if len(users) > 0 {
			out = append(out, models.Reaction{Emoji: emoji, UserIDs: users})
		}
	}

	if !found {
		out = append(out, models.Reaction{Emoji: emoji, UserIDs: []string{userID}})
	}
	return out
}

// Has reports whether userID is in the bucket for emoji.
func Has(list []models.Reaction, emoji, userID string) bool {
	for _, r := range list {
		if r.Emoji != emoji {
			continue
		}
		for _, u := range r.UserIDs {
			if u == userID {
				return true
			}
		}
	}
	return false
}

func cloneReaction(r models.Reaction) models.Reaction {
	users := make([]string, len(r.UserIDs))
	copy(users, r.UserIDs)
	return models.Reaction{Emoji: r.Emoji, UserIDs: users}
}
