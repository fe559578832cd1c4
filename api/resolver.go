package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/glovebox-api/config"
	"github.com/linesmerrill/glovebox-api/databases"
)

// UserNotFoundMessage is the message returned when the caller never registered
const UserNotFoundMessage = "User not found. Please register first."

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying the caller's internal user id
func WithUserID(ctx context.Context, id primitive.ObjectID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFromContext returns the internal user id attached by UserResolver
func UserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(userIDKey{}).(primitive.ObjectID)
	return id, ok
}

// UserResolver translates the authenticated Firebase uid into the internal
// user id. It never creates users; that only happens on registration.
type UserResolver struct {
	DB databases.UserDatabase
}

// Middleware resolves the caller's user id or responds 404. It must run after
// Authenticator.Middleware.
func (u UserResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no identity on request"))
			return
		}

		user, err := u.DB.FindOne(r.Context(), bson.M{"firebase_uid": id.UID})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				config.ErrorStatus(UserNotFoundMessage, http.StatusNotFound, w, err)
				return
			}
			config.ErrorStatus("failed to resolve user", http.StatusInternalServerError, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), user.ID)))
	})
}
