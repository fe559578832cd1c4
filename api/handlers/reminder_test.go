package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/glovebox-api/api/handlers"
	"github.com/linesmerrill/glovebox-api/api/testhelpers"
	"github.com/linesmerrill/glovebox-api/databases/mocks"
	"github.com/linesmerrill/glovebox-api/models"
)

func TestReminder_RemindersHandler(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")

	db := &mocks.ReminderDatabase{}
	db.On("Find", mock.Anything, bson.M{"user_id": caller.UserID}, mock.Anything).
		Return([]models.Reminder{{Title: "oil change"}}, nil)

	rm := handlers.Reminder{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.RemindersHandler).ServeHTTP(rr, caller.Request(http.MethodGet, "/api/reminders", nil, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp models.RemindersResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Reminders, 1)
	assert.Equal(t, "oil change", resp.Reminders[0].Title)
}

func TestReminder_RemindersHandlerByVehicle(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")
	vehicleID := primitive.NewObjectID()

	db := &mocks.ReminderDatabase{}
	db.On("Find", mock.Anything, bson.M{"user_id": caller.UserID, "vehicle_id": vehicleID}, mock.Anything).
		Return(nil, nil)

	rm := handlers.Reminder{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.RemindersHandler).ServeHTTP(rr, caller.Request(http.MethodGet, "/api/reminders?vehicleId="+vehicleID.Hex(), nil, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok": true, "reminders": []}`, rr.Body.String())
}

func TestReminder_RemindersHandlerInvalidVehicle(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")
	db := &mocks.ReminderDatabase{}

	rm := handlers.Reminder{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.RemindersHandler).ServeHTTP(rr, caller.Request(http.MethodGet, "/api/reminders?vehicleId=1234", nil, nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	db.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
}

func TestReminder_CreateReminderHandler(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")
	vehicleID := primitive.NewObjectID()

	db := &mocks.ReminderDatabase{}
	db.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)

	rm := handlers.Reminder{DB: db}
	body := strings.NewReader(`{"vehicle_id": "` + vehicleID.Hex() + `", "title": "Renew registration", "notes": "DMV", "due_date": "2026-11-01"}`)
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.CreateReminderHandler).ServeHTTP(rr, caller.Request(http.MethodPost, "/api/reminders", body, nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	inserted := db.Calls[0].Arguments.Get(1).(models.Reminder)
	assert.Equal(t, caller.UserID, inserted.UserID)
	require.NotNil(t, inserted.VehicleID)
	assert.Equal(t, vehicleID, *inserted.VehicleID)
	assert.Equal(t, "Renew registration", inserted.Title)
	assert.Equal(t, "DMV", inserted.Notes)
	require.NotNil(t, inserted.DueDate)
	assert.True(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC).Equal(*inserted.DueDate))
	assert.False(t, inserted.IsCompleted)
}

func TestReminder_CreateReminderHandlerInvalidDueDate(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")
	db := &mocks.ReminderDatabase{}

	rm := handlers.Reminder{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.CreateReminderHandler).ServeHTTP(rr, caller.Request(http.MethodPost, "/api/reminders", strings.NewReader(`{"title": "x", "due_date": "soon"}`), nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error": "invalid due_date"}`, rr.Body.String())
	db.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestReminder_CreateReminderHandlerFailedToInsert(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")

	db := &mocks.ReminderDatabase{}
	db.On("InsertOne", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	rm := handlers.Reminder{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.CreateReminderHandler).ServeHTTP(rr, caller.Request(http.MethodPost, "/api/reminders", strings.NewReader(`{"title": "x"}`), nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestReminder_UpdateReminderHandler(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")
	reminderID := primitive.NewObjectID()

	db := &mocks.ReminderDatabase{}
	db.On("FindOneAndUpdate", mock.Anything, bson.M{"_id": reminderID, "user_id": caller.UserID}, mock.Anything, mock.Anything).
		Return(&models.Reminder{ID: reminderID, Title: "oil change", IsCompleted: true}, nil)

	rm := handlers.Reminder{DB: db}
	req := caller.Request(http.MethodPut, "/api/reminders/"+reminderID.Hex(), strings.NewReader(`{"is_completed": true, "vehicle_id": ""}`), map[string]string{"id": reminderID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.UpdateReminderHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"is_completed":true`)

	set := db.Calls[0].Arguments.Get(2).(bson.M)["$set"].(bson.M)
	assert.Equal(t, true, set["is_completed"])
	assert.Nil(t, set["vehicle_id"])
	assert.Contains(t, set, "vehicle_id")
	assert.Contains(t, set, "updated_at")
	assert.NotContains(t, set, "title")
}

func TestReminder_UpdateReminderHandlerForeignReminder(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")
	reminderID := primitive.NewObjectID()

	db := &mocks.ReminderDatabase{}
	db.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, mongo.ErrNoDocuments)

	rm := handlers.Reminder{DB: db}
	req := caller.Request(http.MethodPut, "/", strings.NewReader(`{"title": "mine now"}`), map[string]string{"id": reminderID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.UpdateReminderHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok": true}`, rr.Body.String())
}

func TestReminder_UpdateReminderHandlerInvalidID(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")

	rm := handlers.Reminder{DB: &mocks.ReminderDatabase{}}
	req := caller.Request(http.MethodPut, "/", strings.NewReader(`{}`), map[string]string{"id": "1234"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.UpdateReminderHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReminder_UpdateReminderHandlerFailedToUpdate(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")

	db := &mocks.ReminderDatabase{}
	db.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("mocked-error"))

	rm := handlers.Reminder{DB: db}
	req := caller.Request(http.MethodPut, "/", strings.NewReader(`{"title": "x"}`), map[string]string{"id": primitive.NewObjectID().Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.UpdateReminderHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestReminder_DeleteReminderHandler(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")
	reminderID := primitive.NewObjectID()

	db := &mocks.ReminderDatabase{}
	db.On("DeleteOne", mock.Anything, bson.M{"_id": reminderID, "user_id": caller.UserID}).Return(int64(1), nil)

	rm := handlers.Reminder{DB: db}
	req := caller.Request(http.MethodDelete, "/", nil, map[string]string{"id": reminderID.Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.DeleteReminderHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok": true, "message": "Reminder deleted"}`, rr.Body.String())
}

func TestReminder_DeleteReminderHandlerForeignReminder(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")

	db := &mocks.ReminderDatabase{}
	db.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(0), nil)

	rm := handlers.Reminder{DB: db}
	req := caller.Request(http.MethodDelete, "/", nil, map[string]string{"id": primitive.NewObjectID().Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.DeleteReminderHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ok":true`)
}

func TestReminder_DeleteReminderHandlerFailedToDelete(t *testing.T) {
	caller := testhelpers.NewCaller("firebase-uid")

	db := &mocks.ReminderDatabase{}
	db.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(0), errors.New("mocked-error"))

	rm := handlers.Reminder{DB: db}
	req := caller.Request(http.MethodDelete, "/", nil, map[string]string{"id": primitive.NewObjectID().Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(rm.DeleteReminderHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
