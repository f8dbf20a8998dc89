package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is an ordered capability tier: user < admin < super-admin.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

func (r Role) level() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	}
	return 0
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.level() > 0
}

// Meets reports whether r is the minimum tier or a strictly higher one.
func (r Role) Meets(min Role) bool {
	return r.level() >= min.level()
}

type Status string

const (
	StatusInactive Status = "inactive"
	StatusActive   Status = "active"
)

func (s Status) Valid() bool {
	return s == StatusInactive || s == StatusActive
}

// User represents an account in the contacts system. Accounts are created
// inactive and stay that way until an administrator flips the status.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email             string             `bson:"email" json:"email"`
	PasswordHash      string             `bson:"password_hash" json:"-"`
	FirstName         string             `bson:"first_name" json:"firstName"`
	LastName          string             `bson:"last_name" json:"lastName"`
	Role              Role               `bson:"role" json:"role"`
	Status            Status             `bson:"status" json:"status"`
	ResetToken        string             `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExpires time.Time          `bson:"reset_token_expires,omitempty" json:"-"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
