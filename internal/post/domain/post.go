package domain

import (
	"time"

	userdomain "github.com/akarpov/content-api/internal/user/domain"
)

type ID string

// Post is an owned mutable resource. CreatedBy is set exactly once, at
// creation, from the authenticated identity of the creator.
type Post struct {
	ID        ID
	Name      string
	Content   string
	CreatedBy userdomain.ID
	CreatedAt time.Time
	UpdatedAt time.Time
}
