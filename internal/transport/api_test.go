package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-tracker/internal/assistant"
	"inventory-tracker/internal/auth"
	"inventory-tracker/internal/i18n"
	"inventory-tracker/internal/middleware"
	"inventory-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testAPI struct {
	t       *testing.T
	router  http.Handler
	store   *memStore
	auth    service.AuthService
	handler *AuthHandler
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	bundle := i18n.MustBundle()
	store := newMemStore()

	tokens := auth.NewTokens("test-secret", 15*time.Minute)
	authService := service.NewAuthService(memUsers{store}, memTokens{store}, tokens, auth.NewBroker(8), 24*time.Hour, logger)
	inventory := service.NewInventoryService(memItems{store}, memActivity{store}, logger)
	assistantService := service.NewAssistantService(assistant.NewEngine(bundle), memItems{store}, memActivity{store}, logger)
	reviews := service.NewReviewService(memProfiles{store}, 3, 64, logger)

	authMiddleware := middleware.AuthMiddleware(tokens, logger)

	r := chi.NewRouter()
	r.Use(middleware.LocaleMiddleware(bundle, "en"))

	authHandler := NewAuthHandler(authService, logger)
	authHandler.keepAlive = 20 * time.Millisecond
	authHandler.RegisterRoutes(r, authMiddleware, passthrough)
	NewItemHandler(inventory, logger).RegisterRoutes(r, authMiddleware)
	NewActivityHandler(inventory, bundle, logger).RegisterRoutes(r, authMiddleware)
	NewAssistantHandler(assistantService, logger).RegisterRoutes(r, authMiddleware, passthrough)
	NewReportHandler(inventory, bundle, logger).RegisterRoutes(r, authMiddleware)
	NewReviewHandler(reviews, logger).RegisterRoutes(r, authMiddleware)

	return &testAPI{t: t, router: r, store: store, auth: authService, handler: authHandler}
}

// do sends body (marshalled unless it is a string) and returns the recorder
func (a *testAPI) do(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signIn creates an account and returns its sign-in response
func (a *testAPI) signIn(email string) SignInResponse {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/auth/signup", "", SignUpRequest{Email: email, Password: "Password123"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/auth/signin", "", SignInRequest{Email: email, Password: "Password123"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var resp SignInResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[middleware.ErrorResponse](t, w).Error.Message
}
