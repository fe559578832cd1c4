package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/glovebox-api/api"
	"github.com/linesmerrill/glovebox-api/config"
	"github.com/linesmerrill/glovebox-api/databases"
	"github.com/linesmerrill/glovebox-api/models"
)

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

// RegisterUserHandler creates the user for the authenticated identity, or
// refreshes it when it already exists. The body is optional.
func (u User) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no identity on request"))
		return
	}

	var req models.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	email := req.Email
	if email == "" {
		email = id.Email
	}

	now := time.Now().UTC()
	set := bson.M{"email": email, "updated_at": now}
	if req.DisplayName != "" {
		set["display_name"] = req.DisplayName
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	user, err := u.DB.FindOneAndUpdate(r.Context(), bson.M{"firebase_uid": id.UID}, update, opts)
	if err != nil {
		config.ErrorStatus("failed to register user", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Debugw("registered user", "uid", id.UID, "userId", user.ID.Hex())

	config.WriteJSON(w, http.StatusOK, models.UserResponse{OK: true, User: user})
}
