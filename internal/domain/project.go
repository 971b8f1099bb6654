package domain

import "time"

// MaxActiveProjects caps active projects per team, checked at creation time.
const MaxActiveProjects = 10

// Project describes a unit of work owned by a team.
type Project struct {
	ID          string
	TeamID      string
	Title       string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}
