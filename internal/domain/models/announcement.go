// internal/domain/models/announcement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileMeta describes one attachment stored in external storage.
type FileMeta struct {
	StorageID    string `bson:"storage_id" json:"driveId"`
	MimeType     string `bson:"mime_type" json:"mimeType"`
	EmbedLink    string `bson:"embed_link" json:"embedLink"`
	OriginalName string `bson:"original_name" json:"originalName"`
}

// Announcement is a news post scoped to a single department.
//
// NOTE:
//   - Department and CreatedAt are written once at creation and never updated.
//   - Files is append-only; attachments are added with $push, never removed.
type Announcement struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Department string             `bson:"department" json:"department"` // short code, e.g. "CSE"
	Title      string             `bson:"title" json:"title"`
	Body       string             `bson:"body" json:"body"`
	Files      []FileMeta         `bson:"files" json:"files"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
