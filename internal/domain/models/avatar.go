// internal/domain/models/avatar.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Avatar is an image asset attached to a project. MimeType holds the image
// subtype detected at ingestion (e.g. "png", not "image/png"); URL is the
// public object-store location of the stored bytes.
type Avatar struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	MimeType string             `bson:"mime_type" json:"mime_type"`
	URL      string             `bson:"url" json:"url"`
}
