package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linesmerrill/glovebox-api/api"
	"github.com/linesmerrill/glovebox-api/config"
	"github.com/linesmerrill/glovebox-api/databases"
	"github.com/linesmerrill/glovebox-api/models"
	"github.com/linesmerrill/glovebox-api/storage"
)

// maxUploadMemory is how much of a multipart upload is buffered in memory
// before spilling to temp files
const maxUploadMemory = 32 << 20

// Document exported for testing purposes
type Document struct {
	DB      databases.DocumentDatabase
	VDB     databases.VehicleDatabase
	Storage storage.ObjectStorage
}

// DocumentsByVehicleIDHandler lists a vehicle's documents, soonest expiry first
func (d Document) DocumentsByVehicleIDHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerUserID(w, r)
	if !ok {
		return
	}
	vehicleID, ok := d.ownedVehicleID(w, r, userID)
	if !ok {
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "expiry_date", Value: 1}})
	documents, err := d.DB.Find(r.Context(), bson.M{"vehicle_id": vehicleID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get documents", http.StatusInternalServerError, w, err)
		return
	}
	// return an empty array, not null
	if documents == nil {
		documents = []models.Document{}
	}

	config.WriteJSON(w, http.StatusOK, models.DocumentsResponse{OK: true, Documents: documents})
}

// UploadDocumentHandler stores the uploaded file and then records its
// metadata. If the insert fails the stored object is left behind.
func (d Document) UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerUserID(w, r)
	if !ok {
		return
	}
	id, _ := api.IdentityFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		config.ErrorStatus("No file uploaded", http.StatusBadRequest, w, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("No file uploaded", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	expiry, err := parseDate(r.FormValue("expiryDate"))
	if err != nil {
		config.ErrorStatus("invalid expiryDate", http.StatusBadRequest, w, err)
		return
	}

	vehicleID, ok := d.ownedVehicleID(w, r, userID)
	if !ok {
		return
	}

	now := time.Now().UTC()
	objectPath := storage.DocumentPath(id.UID, vehicleID.Hex(), now, header.Filename)
	publicURL, err := d.Storage.Upload(r.Context(), objectPath, file)
	if err != nil {
		config.ErrorStatus("failed to upload document", http.StatusInternalServerError, w, err)
		return
	}

	document := models.Document{
		ID:           primitive.NewObjectID(),
		VehicleID:    vehicleID,
		DocumentType: r.FormValue("documentType"),
		ExpiryDate:   expiry,
		StoragePath:  objectPath,
		PublicURL:    publicURL,
		CreatedAt:    now,
	}
	if _, err := d.DB.InsertOne(r.Context(), document); err != nil {
		zap.S().Warnw("stored object has no metadata row",
			"storagePath", objectPath,
			"vehicleId", vehicleID.Hex())
		config.ErrorStatus("failed to insert document", http.StatusInternalServerError, w, err)
		return
	}

	config.WriteJSON(w, http.StatusOK, models.DocumentResponse{OK: true, Document: &document})
}

// ownedVehicleID parses the vehicleId route variable and checks the vehicle
// belongs to userID, writing the error response when it does not
func (d Document) ownedVehicleID(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) (primitive.ObjectID, bool) {
	vehicleID, err := primitive.ObjectIDFromHex(mux.Vars(r)["vehicleId"])
	if err != nil {
		config.ErrorStatus("invalid vehicle id", http.StatusBadRequest, w, err)
		return primitive.NilObjectID, false
	}

	_, err = d.VDB.FindOne(r.Context(), bson.M{"_id": vehicleID, "user_id": userID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("Vehicle not found", http.StatusNotFound, w, err)
			return primitive.NilObjectID, false
		}
		config.ErrorStatus("failed to get vehicle", http.StatusInternalServerError, w, err)
		return primitive.NilObjectID, false
	}
	return vehicleID, true
}
