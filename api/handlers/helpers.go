package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/glovebox-api/api"
	"github.com/linesmerrill/glovebox-api/config"
)

// dateLayouts are tried in order when parsing expiry and due dates
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate accepts a calendar date or an RFC 3339 timestamp. An empty
// string is no date.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", s)
}

// callerUserID returns the internal user id resolved for this request, writing
// a 401 when the resolver did not run
func callerUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no resolved user on request"))
		return primitive.NilObjectID, false
	}
	return id, true
}
