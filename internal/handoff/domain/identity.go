package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is what an identity provider returns for verified credentials. Assertion is
// opaque to this service and only ever passed through to the session cookie.
type Identity struct {
	UserID    string
	Email     string
	Assertion string
}

// Company is a tenant, addressed by its subdomain of the base domain.
type Company struct {
	ID        uuid.UUID
	Subdomain string
	Name      string
	CreatedAt time.Time
}

// Membership assigns a user to exactly one company with one role.
type Membership struct {
	UserID    string
	CompanyID uuid.UUID
	Role      Role
	CreatedAt time.Time
}
