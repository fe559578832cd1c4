package models

// HealthCheckResponse returns the health check response
type HealthCheckResponse struct {
	OK bool `json:"ok"`
}

// UserResponse wraps a single user
type UserResponse struct {
	OK   bool  `json:"ok"`
	User *User `json:"user"`
}

// VehicleResponse wraps a single vehicle
type VehicleResponse struct {
	OK      bool     `json:"ok"`
	Vehicle *Vehicle `json:"vehicle"`
}

// VehiclesResponse wraps a list of vehicles
type VehiclesResponse struct {
	OK       bool      `json:"ok"`
	Vehicles []Vehicle `json:"vehicles"`
}

// DocumentResponse wraps a single document
type DocumentResponse struct {
	OK       bool      `json:"ok"`
	Document *Document `json:"document"`
}

// DocumentsResponse wraps a list of documents
type DocumentsResponse struct {
	OK        bool       `json:"ok"`
	Documents []Document `json:"documents"`
}

// DeviceResponse wraps a single device
type DeviceResponse struct {
	OK     bool    `json:"ok"`
	Device *Device `json:"device"`
}

// ReminderResponse wraps a single reminder. Reminder is omitted when an
// update matched no row.
type ReminderResponse struct {
	OK       bool      `json:"ok"`
	Reminder *Reminder `json:"reminder,omitempty"`
}

// RemindersResponse wraps a list of reminders
type RemindersResponse struct {
	OK        bool       `json:"ok"`
	Reminders []Reminder `json:"reminders"`
}

// MessageResponse is a success response that carries only a message
type MessageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
