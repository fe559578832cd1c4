package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reminder holds the structure for the reminders collection in mongo
type Reminder struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id"`
	UserID      primitive.ObjectID  `json:"user_id" bson:"user_id"`
	VehicleID   *primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id"`
	Title       string              `json:"title" bson:"title"`
	Notes       string              `json:"notes" bson:"notes"`
	DueDate     *time.Time          `json:"due_date" bson:"due_date"`
	IsCompleted bool                `json:"is_completed" bson:"is_completed"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}

// ReminderRequest is the body accepted when creating or updating a reminder.
// Pointer fields distinguish "not sent" from a zero value on update.
type ReminderRequest struct {
	VehicleID   *string `json:"vehicle_id"`
	Title       *string `json:"title"`
	Notes       *string `json:"notes"`
	DueDate     *string `json:"due_date"`
	IsCompleted *bool   `json:"is_completed"`
}
