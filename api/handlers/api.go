package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/glovebox-api/api"
	"github.com/linesmerrill/glovebox-api/config"
	"github.com/linesmerrill/glovebox-api/databases"
	"github.com/linesmerrill/glovebox-api/identity"
	"github.com/linesmerrill/glovebox-api/models"
	"github.com/linesmerrill/glovebox-api/storage"
)

// App stores the router and the external service handles, so they can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	dbHelper databases.DatabaseHelper
	client   databases.ClientHelper
	storage  storage.ObjectStorage
	verifier identity.Verifier
}

// NewApp builds an App from already constructed service handles and sets up
// the router. Initialize does the same from the config.
func NewApp(conf config.Config, db databases.DatabaseHelper, objects storage.ObjectStorage, verifier identity.Verifier) *App {
	a := &App{
		Config:   conf,
		dbHelper: db,
		storage:  objects,
		verifier: verifier,
	}
	a.initializeRoutes()
	return a
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	authn := api.NewAuthenticator(a.verifier, a.Config.DevBypassAuth, a.Config.DevFakeUID)
	resolver := api.UserResolver{DB: databases.NewUserDatabase(a.dbHelper)}

	// protected requires a verified token, scoped additionally resolves the
	// caller's internal user id
	protected := func(h http.HandlerFunc) http.Handler {
		return authn.Middleware(h)
	}
	scoped := func(h http.HandlerFunc) http.Handler {
		return authn.Middleware(resolver.Middleware(h))
	}

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	v := Vehicle{DB: databases.NewVehicleDatabase(a.dbHelper)}
	d := Document{
		DB:      databases.NewDocumentDatabase(a.dbHelper),
		VDB:     databases.NewVehicleDatabase(a.dbHelper),
		Storage: a.storage,
	}
	dev := Device{DB: databases.NewDeviceDatabase(a.dbHelper)}
	rem := Reminder{DB: databases.NewReminderDatabase(a.dbHelper)}

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	// healthchex
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.Handle("/metrics", api.MetricsHandler()).Methods("GET")

	apiCreate := r.PathPrefix("/api").Subrouter()

	apiCreate.Handle("/registerUser", protected(u.RegisterUserHandler)).Methods("POST")

	apiCreate.Handle("/vehicles", scoped(v.CreateVehicleHandler)).Methods("POST")
	apiCreate.Handle("/vehicles", scoped(v.VehiclesHandler)).Methods("GET")
	apiCreate.Handle("/vehicles/{vehicleId}/documents", scoped(d.DocumentsByVehicleIDHandler)).Methods("GET")
	apiCreate.Handle("/vehicles/{vehicleId}/documents", scoped(d.UploadDocumentHandler)).Methods("POST")

	apiCreate.Handle("/registerDevice", scoped(dev.RegisterDeviceHandler)).Methods("POST")

	apiCreate.Handle("/reminders", scoped(rem.RemindersHandler)).Methods("GET")
	apiCreate.Handle("/reminders", scoped(rem.CreateReminderHandler)).Methods("POST")
	apiCreate.Handle("/reminders/{id}", scoped(rem.UpdateReminderHandler)).Methods("PUT")
	apiCreate.Handle("/reminders/{id}", scoped(rem.DeleteReminderHandler)).Methods("DELETE")

	return r
}

// Initialize is invoked by main to connect with the database, build the
// external clients and create a router
func (a *App) Initialize(ctx context.Context) error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With("error", err).Error("failed to create new client")
		return err
	}
	a.client = client

	err = client.Connect(ctx)
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With("error", err).Error("failed to connect to database")
		return err
	}
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("glovebox-api has connected to the database")

	if err := databases.EnsureIndexes(ctx, a.dbHelper); err != nil {
		zap.S().With("error", err).Error("failed to create indexes")
		return err
	}

	objects, err := storage.NewCloudinary(a.Config.CloudinaryURL)
	if err != nil {
		return err
	}
	a.storage = objects

	verifier, err := newVerifier(a.Config)
	if err != nil {
		return err
	}
	a.verifier = verifier

	// initialize api router
	a.initializeRoutes()
	return nil
}

// Close disconnects from the database
func (a *App) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	return a.client.Disconnect(ctx)
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// newVerifier resolves the firebase project from the explicit project id or
// the service account credential. No project leaves the verifier nil, which
// only dev bypass mode can work with.
func newVerifier(conf config.Config) (identity.Verifier, error) {
	projectID := conf.ProjectID
	if projectID == "" && conf.ServiceAccount != "" {
		id, err := identity.LoadProjectID(conf.ServiceAccount)
		if err != nil {
			return nil, err
		}
		projectID = id
	}
	if projectID == "" {
		return nil, nil
	}
	v, err := identity.NewFirebaseVerifier(projectID, identity.GoogleCertsURL)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	config.WriteJSON(w, http.StatusOK, models.HealthCheckResponse{OK: true})
}
