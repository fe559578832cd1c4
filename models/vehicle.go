package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle holds the structure for the vehicles collection in mongo
type Vehicle struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	UserID       primitive.ObjectID `json:"user_id" bson:"user_id"`
	Make         string             `json:"make" bson:"make"`
	Model        string             `json:"model" bson:"model"`
	Year         int                `json:"year" bson:"year"`
	LicensePlate string             `json:"license_plate" bson:"license_plate"`
	Nickname     string             `json:"nickname" bson:"nickname"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// CreateVehicleRequest is the body accepted when creating a vehicle
type CreateVehicleRequest struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"license_plate"`
	Nickname     string `json:"nickname"`
}
