package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User holds the structure for the users collection in mongo
type User struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirebaseUID string             `json:"firebase_uid" bson:"firebase_uid"`
	Email       string             `json:"email" bson:"email"`
	DisplayName string             `json:"display_name" bson:"display_name"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// RegisterUserRequest is the body accepted by the register user endpoint
type RegisterUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}
