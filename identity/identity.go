// Package identity verifies Firebase ID tokens presented by the mobile app.
package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"
)

// ErrNoProjectID is returned when a credential carries no project_id
var ErrNoProjectID = errors.New("firebase credential has no project_id")

// Claims are the decoded claims of a verified ID token. Subject is the
// Firebase uid.
type Claims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	AuthTime      int64  `json:"auth_time"`
}

// Verifier checks an ID token and returns its claims
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// LoadProjectID reads the project id out of a service account credential.
// The credential is either inline JSON or a path to a JSON file.
func LoadProjectID(credential string) (string, error) {
	raw := strings.TrimSpace(credential)
	if !strings.HasPrefix(raw, "{") {
		b, err := os.ReadFile(raw)
		if err != nil {
			return "", fmt.Errorf("failed to read firebase credential: %w", err)
		}
		raw = string(b)
	}
	if !gjson.Valid(raw) {
		return "", errors.New("firebase credential is not valid json")
	}
	projectID := gjson.Get(raw, "project_id").String()
	if projectID == "" {
		return "", ErrNoProjectID
	}
	return projectID, nil
}
