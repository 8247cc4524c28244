package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment describes one stored media file, regardless of which storage
// backend holds the bytes. Immutable once attached to a post.
type Attachment struct {
	StorageKey   string `json:"storageKey" bson:"storageKey"`
	URL          string `json:"url" bson:"url"`
	OriginalName string `json:"originalName" bson:"originalName"`
	MimeType     string `json:"mimeType" bson:"mimeType"`
	SizeBytes    int64  `json:"sizeBytes" bson:"sizeBytes"`
}

// Post is a user-authored post with an ordered media sequence.
// Attachments have no lifecycle of their own: they are created and
// replaced together with the owning post.
type Post struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title" validate:"required"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Author      string             `json:"author" bson:"author" validate:"required"`
	Media       []Attachment       `json:"media" bson:"media"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
