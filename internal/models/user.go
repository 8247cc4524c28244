package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Email     string             `json:"email" bson:"email" validate:"required,email"`
	Password  string             `json:"-" bson:"password" validate:"required,min=6"` // bcrypt digest at rest, never serialized
	AvatarURL string             `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// NormalizeEmail applies the uniform email normalization rule: trimmed and
// lower-cased. Every path that touches an email (create, login, update)
// goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
