package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/glovebox-api/models"
)

// Config holds the project config values
type Config struct {
	URL            string `env:"DB_URI"`
	DatabaseName   string `env:"DB_NAME,default=glovebox"`
	CloudinaryURL  string `env:"CLOUDINARY_URL"`
	ServiceAccount string `env:"FIREBASE_SERVICE_ACCOUNT"`
	ProjectID      string `env:"FIREBASE_PROJECT_ID"`
	BaseURL        string `env:"BASE_URL"`
	Port           string `env:"PORT,default=3000"`
	DevBypassAuth  bool   `env:"DEV_BYPASS_AUTH,default=false"`
	DevFakeUID     string `env:"DEV_FAKE_UID,default=dev-user"`
	Env            string `env:"ENV,default=local"`
	Timezone       string `env:"NOTIFIER_TIMEZONE,default=UTC"`
}

// New sets up all config related services. Values from envFiles (or ./.env
// when none are given) are loaded first; variables already present in the
// environment win.
func New(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	c := &Config{}
	if err := envdecode.Decode(c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	//setup zap logger and replace default logger
	logger, err := setLogger(c.Env)
	if err != nil {
		return nil, err
	}
	_ = zap.ReplaceGlobals(logger)

	return c, nil
}

// ValidateGateway checks the values the api server cannot start without.
// A missing identity credential is only a warning since dev bypass mode
// does not need it.
func (c *Config) ValidateGateway() error {
	if c.URL == "" || c.CloudinaryURL == "" {
		return errors.New("DB_URI and CLOUDINARY_URL must be set")
	}
	if c.ServiceAccount == "" && c.ProjectID == "" {
		zap.S().Warnw("no firebase credential configured, only dev bypass auth will work",
			"devBypassAuth", c.DevBypassAuth)
	}
	return nil
}

// ValidateNotifier checks the values the expiration notifier cannot run without
func (c *Config) ValidateNotifier() error {
	if c.URL == "" {
		return errors.New("DB_URI must be set")
	}
	if c.ServiceAccount == "" {
		return errors.New("FIREBASE_SERVICE_ACCOUNT must be set")
	}
	return nil
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err. Server errors surface the raw error, everything
// else only the message.
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With("error", err).Error(message)
	body := message
	if httpStatusCode >= http.StatusInternalServerError && err != nil {
		body = err.Error()
	}
	WriteJSON(w, httpStatusCode, models.ErrorResponse{Error: body})
}

// WriteJSON marshals v and writes it with the given status code
func WriteJSON(w http.ResponseWriter, httpStatusCode int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		zap.S().With("error", err).Error("failed to marshal response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "failed to marshal response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	w.Write(b)
}
