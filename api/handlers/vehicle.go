package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/glovebox-api/config"
	"github.com/linesmerrill/glovebox-api/databases"
	"github.com/linesmerrill/glovebox-api/models"
)

// Vehicle exported for testing purposes
type Vehicle struct {
	DB databases.VehicleDatabase
}

// CreateVehicleHandler adds a vehicle owned by the caller
func (v Vehicle) CreateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerUserID(w, r)
	if !ok {
		return
	}

	var req models.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	vehicle := models.Vehicle{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		Nickname:     req.Nickname,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := v.DB.InsertOne(r.Context(), vehicle); err != nil {
		config.ErrorStatus("failed to insert vehicle", http.StatusInternalServerError, w, err)
		return
	}

	config.WriteJSON(w, http.StatusOK, models.VehicleResponse{OK: true, Vehicle: &vehicle})
}

// VehiclesHandler lists the caller's vehicles, oldest first
func (v Vehicle) VehiclesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerUserID(w, r)
	if !ok {
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	vehicles, err := v.DB.Find(r.Context(), bson.M{"user_id": userID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get vehicles", http.StatusInternalServerError, w, err)
		return
	}
	// return an empty array, not null
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}

	config.WriteJSON(w, http.StatusOK, models.VehiclesResponse{OK: true, Vehicles: vehicles})
}
