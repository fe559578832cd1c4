package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Device holds the structure for the devices collection in mongo
type Device struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Token     string             `json:"token" bson:"token"`       // FCM registration token
	Platform  string             `json:"platform" bson:"platform"` // "ios" or "android"
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// RegisterDeviceRequest is the body accepted by the register device endpoint
type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}
