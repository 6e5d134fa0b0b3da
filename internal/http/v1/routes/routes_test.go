package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	formcore "github.com/renthub/profile-service/internal/form"
	appmiddleware "github.com/renthub/profile-service/internal/middleware"
	"github.com/renthub/profile-service/internal/platform/auth"
	applog "github.com/renthub/profile-service/internal/platform/logging"
	"github.com/renthub/profile-service/internal/respond"
	"github.com/renthub/profile-service/internal/service/account"
	"github.com/renthub/profile-service/internal/service/media"
)

func newTestRouter() chi.Router {
	accounts := account.NewMock()
	accounts.Put(&account.Profile{ID: "test-user-123", FullName: "Alice", Email: "test@example.com"})
	manager := formcore.NewManager(accounts, &media.Mock{}, formcore.DefaultMinimumAge)
	verifier := &auth.MockVerifier{User: auth.TestUser()}

	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("RoutesTest", "test"))
	Register(api, verifier, manager)
	return router
}

func TestRegisteredRoutesRequireAuth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/forms/settings", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "routes-auth")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}

func TestRegisteredRoutesOpenForm(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/forms/settings", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	req.Header.Set(chimiddleware.RequestIDHeader, "routes-open")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
}
