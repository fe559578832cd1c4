package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/linesmerrill/glovebox-api/identity"
)

// tokenCacheTTL bounds how long a verified ID token is trusted without asking
// the verifier again
const tokenCacheTTL = 5 * time.Minute

const devEmail = "dev@glovebox.local"

// expiresAtExtension holds the token's exp claim, in unix seconds, on the
// cached auth.Info
const expiresAtExtension = "exp"

// Identity is the authenticated caller as known to the identity provider
type Identity struct {
	UID   string
	Email string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by the auth middleware
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Authenticator guards routes behind a Firebase bearer token
type Authenticator struct {
	authenticator auth.Authenticator
	verifier      identity.Verifier
	devBypass     bool
	devUID        string
	now           func() time.Time
}

// NewAuthenticator sets up the go-guardian bearer strategy. With devBypass
// every request is authenticated as devUID and verifier may be nil.
func NewAuthenticator(verifier identity.Verifier, devBypass bool, devUID string) *Authenticator {
	a := &Authenticator{
		verifier:  verifier,
		devBypass: devBypass,
		devUID:    devUID,
		now:       time.Now,
	}
	cache := store.NewFIFO(context.Background(), tokenCacheTTL)
	tokenStrategy := bearer.New(a.verifyToken, cache)

	a.authenticator = auth.New()
	a.authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
	return a
}

// Middleware adds bearer token authentication around accessing the routes
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.devBypass {
			ctx := WithIdentity(r.Context(), Identity{UID: a.devUID, Email: devEmail})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		user, err := a.authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL,
				"error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		if a.expired(user) {
			zap.S().Infow("unauthorized, token expired",
				"url", r.URL,
				"uid", user.ID())
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("User %s Authenticated", user.ID())

		ctx := WithIdentity(r.Context(), Identity{UID: user.ID(), Email: user.UserName()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// verifyToken is the go-guardian bearer authenticate func
func (a *Authenticator) verifyToken(ctx context.Context, r *http.Request, token string) (auth.Info, error) {
	if a.verifier == nil {
		return nil, errors.New("no identity verifier configured")
	}
	claims, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("token has no expiry")
	}
	exts := map[string][]string{
		expiresAtExtension: {strconv.FormatInt(claims.ExpiresAt.Unix(), 10)},
	}
	return auth.NewDefaultUser(claims.Email, claims.Subject, nil, exts), nil
}

// expired reports whether the token behind a cached identity is past its exp
func (a *Authenticator) expired(user auth.Info) bool {
	vals := user.Extensions()[expiresAtExtension]
	if len(vals) == 0 {
		return true
	}
	exp, err := strconv.ParseInt(vals[0], 10, 64)
	if err != nil {
		return true
	}
	return !a.now().Before(time.Unix(exp, 0))
}
