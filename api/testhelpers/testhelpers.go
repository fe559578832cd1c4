package testhelpers

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/glovebox-api/api"
)

// Caller is the authenticated, registered user a test request is made as
type Caller struct {
	UID    string
	Email  string
	UserID primitive.ObjectID
}

// NewCaller returns a caller with a fresh internal user id
func NewCaller(uid string) Caller {
	return Caller{UID: uid, Email: uid + "@example.com", UserID: primitive.NewObjectID()}
}

// Request builds a request that looks like it already went through the auth
// and user resolver middleware, with vars set as the mux route variables
func (c Caller) Request(method, target string, body io.Reader, vars map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := api.WithIdentity(req.Context(), api.Identity{UID: c.UID, Email: c.Email})
	ctx = api.WithUserID(ctx, c.UserID)
	req = req.WithContext(ctx)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

// IdentityOnly builds a request carrying the identity but no resolved user,
// as seen by the registration endpoint
func (c Caller) IdentityOnly(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(api.WithIdentity(req.Context(), api.Identity{UID: c.UID, Email: c.Email}))
}
