package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = "glovebox-test"

type certServer struct {
	key   *rsa.PrivateKey
	srv   *httptest.Server
	hits  int32
	certs map[string]string
}

func newCertServer(t *testing.T) *certServer {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken.system.gserviceaccount.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	cs := &certServer{
		key:   key,
		certs: map[string]string{"kid-1": string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))},
	}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&cs.hits, 1)
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		json.NewEncoder(w).Encode(cs.certs)
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *certServer) sign(t *testing.T, kid string, claims Claims) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(cs.key)
	require.NoError(t, err)
	return s
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://securetoken.google.com/" + testProject,
			Audience:  jwt.ClaimStrings{testProject},
			Subject:   "firebase-uid-1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email: "driver@example.com",
	}
}

func TestFirebaseVerifier_Verify(t *testing.T) {
	cs := newCertServer(t)
	v, err := NewFirebaseVerifier(testProject, cs.srv.URL)
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), cs.sign(t, "kid-1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid-1", claims.Subject)
	assert.Equal(t, "driver@example.com", claims.Email)

	// keys are cached per max-age
	_, err = v.Verify(context.Background(), cs.sign(t, "kid-1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&cs.hits))
}

func TestFirebaseVerifier_Rejects(t *testing.T) {
	cs := newCertServer(t)
	v, err := NewFirebaseVerifier(testProject, cs.srv.URL)
	require.NoError(t, err)

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "https://securetoken.google.com/someone-else"

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
	}{
		{"wrong audience", cs.sign(t, "kid-1", wrongAudience)},
		{"wrong issuer", cs.sign(t, "kid-1", wrongIssuer)},
		{"expired", cs.sign(t, "kid-1", expired)},
		{"no subject", cs.sign(t, "kid-1", noSubject)},
		{"unknown kid", cs.sign(t, "kid-2", validClaims())},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Verify(context.Background(), tt.token)
			assert.Nil(t, claims)
			assert.Error(t, err)
		})
	}
}

func TestFirebaseVerifier_RejectsHS256(t *testing.T) {
	cs := newCertServer(t)
	v, err := NewFirebaseVerifier(testProject, cs.srv.URL)
	require.NoError(t, err)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
	tok.Header["kid"] = "kid-1"
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), s)
	assert.Error(t, err)
}

func TestNewFirebaseVerifierRequiresProject(t *testing.T) {
	v, err := NewFirebaseVerifier("", "")
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrNoProjectID)
}

func TestMaxAge(t *testing.T) {
	assert.Equal(t, 19856*time.Second, maxAge("public, max-age=19856, must-revalidate, no-transform"))
	assert.Equal(t, defaultCertsTTL, maxAge("no-cache"))
	assert.Equal(t, defaultCertsTTL, maxAge("max-age=abc"))
}
