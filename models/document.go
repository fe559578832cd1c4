package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document holds the structure for the documents collection in mongo. A
// document is an uploaded file (insurance, registration, inspection...)
// attached to a vehicle.
type Document struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	VehicleID    primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id"`
	DocumentType string             `json:"document_type" bson:"document_type"`
	ExpiryDate   *time.Time         `json:"expiry_date" bson:"expiry_date"`
	StoragePath  string             `json:"storage_path" bson:"storage_path"`
	PublicURL    string             `json:"public_url" bson:"public_url"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
