package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/glovebox-api/config"
	"github.com/linesmerrill/glovebox-api/databases"
	"github.com/linesmerrill/glovebox-api/models"
)

// Reminder exported for testing purposes
type Reminder struct {
	DB databases.ReminderDatabase
}

// RemindersHandler lists the caller's reminders by due date, optionally only
// those for one vehicle
func (rm Reminder) RemindersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerUserID(w, r)
	if !ok {
		return
	}

	filter := bson.M{"user_id": userID}
	if v := r.URL.Query().Get("vehicleId"); v != "" {
		vehicleID, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			config.ErrorStatus("invalid vehicle id", http.StatusBadRequest, w, err)
			return
		}
		filter["vehicle_id"] = vehicleID
	}

	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}})
	reminders, err := rm.DB.Find(r.Context(), filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get reminders", http.StatusInternalServerError, w, err)
		return
	}
	// return an empty array, not null
	if reminders == nil {
		reminders = []models.Reminder{}
	}

	config.WriteJSON(w, http.StatusOK, models.RemindersResponse{OK: true, Reminders: reminders})
}

// CreateReminderHandler adds a reminder owned by the caller
func (rm Reminder) CreateReminderHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerUserID(w, r)
	if !ok {
		return
	}

	var req models.ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	now := time.Now().UTC()
	reminder := models.Reminder{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields, err := reminderFields(req)
	if err != nil {
		config.ErrorStatus(err.Error(), http.StatusBadRequest, w, err)
		return
	}
	if v, ok := fields["vehicle_id"]; ok {
		reminder.VehicleID = v.(*primitive.ObjectID)
	}
	if v, ok := fields["title"]; ok {
		reminder.Title = v.(string)
	}
	if v, ok := fields["notes"]; ok {
		reminder.Notes = v.(string)
	}
	if v, ok := fields["due_date"]; ok {
		reminder.DueDate = v.(*time.Time)
	}
	if v, ok := fields["is_completed"]; ok {
		reminder.IsCompleted = v.(bool)
	}

	if _, err := rm.DB.InsertOne(r.Context(), reminder); err != nil {
		config.ErrorStatus("failed to insert reminder", http.StatusInternalServerError, w, err)
		return
	}

	config.WriteJSON(w, http.StatusOK, models.ReminderResponse{OK: true, Reminder: &reminder})
}

// UpdateReminderHandler changes the fields present in the body. A reminder
// that does not exist or belongs to someone else is a no-op, not an error.
func (rm Reminder) UpdateReminderHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerUserID(w, r)
	if !ok {
		return
	}
	reminderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		config.ErrorStatus("invalid reminder id", http.StatusBadRequest, w, err)
		return
	}

	var req models.ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	set, err := reminderFields(req)
	if err != nil {
		config.ErrorStatus(err.Error(), http.StatusBadRequest, w, err)
		return
	}
	set["updated_at"] = time.Now().UTC()

	filter := bson.M{"_id": reminderID, "user_id": userID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	reminder, err := rm.DB.FindOneAndUpdate(r.Context(), filter, bson.M{"$set": set}, opts)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			zap.S().Debugw("reminder update matched nothing", "reminderId", reminderID.Hex())
			config.WriteJSON(w, http.StatusOK, models.ReminderResponse{OK: true})
			return
		}
		config.ErrorStatus("failed to update reminder", http.StatusInternalServerError, w, err)
		return
	}

	config.WriteJSON(w, http.StatusOK, models.ReminderResponse{OK: true, Reminder: reminder})
}

// DeleteReminderHandler removes one of the caller's reminders. Deleting a
// reminder that is not the caller's deletes nothing and still succeeds.
func (rm Reminder) DeleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerUserID(w, r)
	if !ok {
		return
	}
	reminderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		config.ErrorStatus("invalid reminder id", http.StatusBadRequest, w, err)
		return
	}

	deleted, err := rm.DB.DeleteOne(r.Context(), bson.M{"_id": reminderID, "user_id": userID})
	if err != nil {
		config.ErrorStatus("failed to delete reminder", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Debugw("deleted reminder", "reminderId", reminderID.Hex(), "count", deleted)

	config.WriteJSON(w, http.StatusOK, models.MessageResponse{OK: true, Message: "Reminder deleted"})
}

// reminderFields converts the fields present in req into their stored form,
// keyed by bson field name. An empty vehicle_id or due_date clears it.
func reminderFields(req models.ReminderRequest) (bson.M, error) {
	fields := bson.M{}
	if req.VehicleID != nil {
		var vehicleID *primitive.ObjectID
		if *req.VehicleID != "" {
			id, err := primitive.ObjectIDFromHex(*req.VehicleID)
			if err != nil {
				return nil, errors.New("invalid vehicle_id")
			}
			vehicleID = &id
		}
		fields["vehicle_id"] = vehicleID
	}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return nil, errors.New("invalid due_date")
		}
		fields["due_date"] = due
	}
	if req.IsCompleted != nil {
		fields["is_completed"] = *req.IsCompleted
	}
	return fields, nil
}
