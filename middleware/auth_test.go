package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticVerifier map[string]string

func (v staticVerifier) VerifyToken(token string) (string, error) {
	if userID, ok := v[token]; ok {
		return userID, nil
	}
	return "", errors.New("bad token")
}

func TestRequireUser(t *testing.T) {
	var seen string
	handler := RequireUser(staticVerifier{"good": "u1"}, zap.NewNop().Sugar())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))

	cases := []struct {
		name   string
		header string
		status int
		user   string
	}{
		{"valid token", "Bearer good", http.StatusNoContent, "u1"},
		{"lowercase scheme", "bearer good", http.StatusNoContent, "u1"},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"missing header", "", http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			seen = ""
			r := httptest.NewRequest(http.MethodGet, "/api/match", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			req.Equal(tc.status, w.Code)
			req.Equal(tc.user, seen)
			if tc.status == http.StatusUnauthorized {
				req.JSONEq(`{"error":"authentication required"}`, w.Body.String())
			}
		})
	}
}

func TestUserIDFromContext(t *testing.T) {
	req := require.New(t)
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := UserIDFromContext(r.Context())
	req.False(ok)

	userID, ok := UserIDFromContext(WithUserID(r.Context(), "u7"))
	req.True(ok)
	req.Equal("u7", userID)
}
