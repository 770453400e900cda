package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/calcfunding/portal/internal/adapters/authroles"
	domainauth "github.com/calcfunding/portal/internal/domain/auth"
	"github.com/calcfunding/portal/internal/mocks"
)

func TestHealthzIsPublic(t *testing.T) {
	tr := newTestRouter(t)
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"calculate-funding-portal"}`, rec.Body.String())
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", "", http.StatusUnauthorized},
		{"valid header", "Bearer " + testToken, "", http.StatusNotFound},
		{"valid query token", "", "?access_token=" + testToken, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestRouter(t)
			req := httptest.NewRequest(http.MethodGet, "/api/unknown"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tr.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
				var body ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "authentication_required", body.Error)
			}
		})
	}
}

func TestRequireAuth_PassesIdentityToHandler(t *testing.T) {
	verifier := mocks.NewMockTokenVerifier(gomock.NewController(t))
	verifier.EXPECT().Verify(gomock.Any(), "tok-123").
		Return(domainauth.Identity{UserID: "u-9", Groups: []string{"funding"}}, nil)
	verifier.EXPECT().Verify(gomock.Any(), "expired").
		Return(domainauth.Identity{}, errors.New("token is expired"))

	var seen domainauth.Identity
	h := RequireAuth(verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = domainauth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u-9", seen.UserID)

	req = httptest.NewRequest(http.MethodGet, "/api/x", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_GroupGate(t *testing.T) {
	tr := newTestRouter(t, withGate(authroles.GroupGate{Allowed: []string{"funding"}}))

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.Header.Set("Authorization", "Bearer "+outsiderTok)
	rec := tr.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = tr.get("/api/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestID(t *testing.T) {
	tr := newTestRouter(t)

	rec := tr.get("/healthz")
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	inbound := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, inbound)
	rec = tr.do(req)
	assert.Equal(t, inbound, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid\r\n")
	rec = tr.do(req)
	assert.NotEqual(t, "not-a-uuid\r\n", rec.Header().Get(RequestIDHeader))
}

func TestRecover(t *testing.T) {
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") }), Recover())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "kaboom")
}
