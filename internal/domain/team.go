package domain

import "time"

// Team represents a collaborative group. The owner is always part of the
// members set; every mutation path re-adds the owner after member changes.
type Team struct {
	ID        string
	Name      string
	OwnerID   string
	Members   []string
	CreatedAt time.Time
}

// IsMember reports whether the user is the owner or a listed member.
func (t Team) IsMember(userID string) bool {
	if userID == "" {
		return false
	}
	if userID == t.OwnerID {
		return true
	}
	for _, id := range t.Members {
		if id == userID {
			return true
		}
	}
	return false
}
