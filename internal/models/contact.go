package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShareEntry grants read access on a contact to another user.
type ShareEntry struct {
	UserID string `bson:"user_id" json:"userId"`
	Email  string `bson:"email" json:"email"`
}

// Contact is an address-book entry. Only the owner may mutate it; users
// listed in SharedWith may read it. SharedWith keeps insertion order and is
// unique by email.
type Contact struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName     string             `bson:"first_name" json:"firstName"`
	LastName      string             `bson:"last_name" json:"lastName"`
	ContactNumber string             `bson:"contact_number" json:"contactNumber"`
	EmailAddress  string             `bson:"email_address" json:"emailAddress"`
	Photo         string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Owner         primitive.ObjectID `bson:"owner" json:"owner"`
	SharedWith    []ShareEntry       `bson:"shared_with" json:"sharedWith"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsSharedWith reports whether the user id has a share entry on the contact.
func (c *Contact) IsSharedWith(userID string) bool {
	for _, s := range c.SharedWith {
		if s.UserID == userID {
			return true
		}
	}
	return false
}
