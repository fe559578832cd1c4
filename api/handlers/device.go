package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/glovebox-api/config"
	"github.com/linesmerrill/glovebox-api/databases"
	"github.com/linesmerrill/glovebox-api/models"
)

// Device exported for testing purposes
type Device struct {
	DB databases.DeviceDatabase
}

// RegisterDeviceHandler upserts a push token for the caller. A token already
// registered to another user moves to the caller.
func (d Device) RegisterDeviceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerUserID(w, r)
	if !ok {
		return
	}

	var req models.RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if req.Token == "" {
		config.ErrorStatus("token is required", http.StatusBadRequest, w, errors.New("missing device token"))
		return
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"user_id":    userID,
			"platform":   req.Platform,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	device, err := d.DB.FindOneAndUpdate(r.Context(), bson.M{"token": req.Token}, update, opts)
	if err != nil {
		config.ErrorStatus("failed to register device", http.StatusInternalServerError, w, err)
		return
	}

	config.WriteJSON(w, http.StatusOK, models.DeviceResponse{OK: true, Device: device})
}
