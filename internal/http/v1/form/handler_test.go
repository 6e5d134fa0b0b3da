package form

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
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

func newTestRouter(mgr *formcore.Manager, verifier auth.Verifier) chi.Router {
	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("FormTest", "test"))
	api.UseMiddleware(auth.NewAuthMiddleware(api, verifier))
	Register(api, mgr, "/v1")
	return router
}

func newTestManager(avatarRef string) (*formcore.Manager, *account.Mock) {
	accounts := account.NewMock()
	bd := time.Date(1990, time.June, 1, 0, 0, 0, 0, time.UTC)
	accounts.Put(&account.Profile{
		ID:        "test-user-123",
		FullName:  "Alice Example",
		Email:     "test@example.com",
		Phone:     "+358401234567",
		BirthDate: &bd,
		Avatar:    "avatars/old.png",
	})
	return formcore.NewManager(accounts, &media.Mock{Ref: avatarRef}, formcore.DefaultMinimumAge), accounts
}

func openSession(t *testing.T, router chi.Router) FormSession {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/forms/settings", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("open session: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var session FormSession
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	return session
}

func TestOpenSettingsForm(t *testing.T) {
	mgr, _ := newTestManager("avatars/new.png")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)

	req := httptest.NewRequest(http.MethodPost, "/forms/settings", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	req.Header.Set(chimiddleware.RequestIDHeader, "open-settings-test")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var session FormSession
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if session.Variant != "individual" {
		t.Errorf("expected individual variant, got %s", session.Variant)
	}
	if session.FullName != "Alice Example" {
		t.Errorf("expected seeded full name, got %s", session.FullName)
	}
	if !session.CommitEnabled {
		t.Error("expected commit enabled on seeded form")
	}

	location := resp.Header().Get("Location")
	if location != "/v1/forms/"+session.ID {
		t.Errorf("expected Location /v1/forms/%s, got %s", session.ID, location)
	}
}

func TestOpenSettingsFormProfileMissing(t *testing.T) {
	mgr := formcore.NewManager(account.NewMock(), &media.Mock{}, formcore.DefaultMinimumAge)
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)

	req := httptest.NewRequest(http.MethodPost, "/forms/settings", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestOpenOrganizationFormMissingOrgIsNotFound(t *testing.T) {
	mgr, _ := newTestManager("")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)

	// An absent identifier renders the same not-found state as an
	// unresolvable one.
	req := httptest.NewRequest(http.MethodPost, "/forms/organization", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing org param, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetFormNotFound(t *testing.T) {
	mgr, _ := newTestManager("")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)

	req := httptest.NewRequest(http.MethodGet, "/forms/unknown-id", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestFormUnauthorized(t *testing.T) {
	mgr, _ := newTestManager("")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)

	req := httptest.NewRequest(http.MethodPost, "/forms/settings", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if wwwAuth := resp.Header().Get("WWW-Authenticate"); wwwAuth != "Bearer" {
		t.Errorf("expected WWW-Authenticate: Bearer, got %s", wwwAuth)
	}
}

func TestOpenSettingsFormUnverifiedEmail(t *testing.T) {
	mgr, _ := newTestManager("")
	verifier := &auth.MockVerifier{User: &auth.FirebaseUser{UID: "test-user-123", Email: "test@example.com"}}
	router := newTestRouter(mgr, verifier)

	req := httptest.NewRequest(http.MethodPost, "/forms/settings", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unverified email, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUpdateFormFields(t *testing.T) {
	mgr, _ := newTestManager("")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)
	session := openSession(t, router)

	body := `{"fullName":"Renamed Person","phone":"invalid-phone"}`
	req := httptest.NewRequest(http.MethodPatch, "/forms/"+session.ID+"/fields", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated FormSession
	if err := json.Unmarshal(resp.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if updated.FullName != "Renamed Person" {
		t.Errorf("expected updated name, got %s", updated.FullName)
	}
	if updated.Validity["phone"] != "invalid" {
		t.Errorf("expected phone invalid, got %q", updated.Validity["phone"])
	}
	if updated.CommitEnabled {
		t.Error("expected commit disabled with invalid phone")
	}
}

func TestValidateFormName(t *testing.T) {
	mgr, accounts := newTestManager("")
	accounts.SetTaken("Taken Name")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)
	session := openSession(t, router)

	patch := httptest.NewRequest(http.MethodPatch, "/forms/"+session.ID+"/fields",
		strings.NewReader(`{"fullName":"Taken Name"}`))
	patch.Header.Set("Content-Type", "application/json")
	patch.Header.Set("Authorization", "Bearer valid-token")
	router.ServeHTTP(httptest.NewRecorder(), patch)

	req := httptest.NewRequest(http.MethodPost, "/forms/"+session.ID+"/name/validate", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated FormSession
	if err := json.Unmarshal(resp.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if updated.Validity["fullName"] != "invalid" {
		t.Errorf("expected fullName invalid, got %q", updated.Validity["fullName"])
	}
}

func TestUploadFormAvatar(t *testing.T) {
	mgr, _ := newTestManager("avatars/new.png")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)
	session := openSession(t, router)

	// "aGVsbG8=" is base64 for "hello".
	body := `{"filename":"me.png","data":"aGVsbG8="}`
	req := httptest.NewRequest(http.MethodPost, "/forms/"+session.ID+"/avatar", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated FormSession
	if err := json.Unmarshal(resp.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if updated.Avatar != "avatars/new.png" {
		t.Errorf("expected new avatar reference, got %s", updated.Avatar)
	}
	if updated.UploadPhase != "complete" {
		t.Errorf("expected upload complete, got %s", updated.UploadPhase)
	}
}

func TestToggleFormPreference(t *testing.T) {
	mgr, accounts := newTestManager("")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)
	session := openSession(t, router)

	req := httptest.NewRequest(http.MethodPost, "/forms/"+session.ID+"/preference",
		strings.NewReader(`{"enabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated FormSession
	if err := json.Unmarshal(resp.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if !updated.Preference {
		t.Error("expected preference enabled")
	}
	if accounts.PreferenceCalls != 1 {
		t.Errorf("expected one preference call, got %d", accounts.PreferenceCalls)
	}
}

func TestResendActivationRequiresAdmin(t *testing.T) {
	mgr, _ := newTestManager("")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)
	session := openSession(t, router)

	req := httptest.NewRequest(http.MethodPost, "/forms/"+session.ID+"/activation/resend", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestResendActivationAsAdmin(t *testing.T) {
	accounts := account.NewMock()
	accounts.Put(&account.Profile{ID: "test-admin-123", FullName: "Admin", Email: "admin@example.com"})
	mgr := formcore.NewManager(accounts, &media.Mock{}, formcore.DefaultMinimumAge)
	verifier := &auth.MockVerifier{User: auth.TestAdmin()}
	router := newTestRouter(mgr, verifier)
	session := openSession(t, router)

	req := httptest.NewRequest(http.MethodPost, "/forms/"+session.ID+"/activation/resend", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if accounts.ResendCalls != 1 {
		t.Errorf("expected one resend call, got %d", accounts.ResendCalls)
	}
}

func TestSubmitForm(t *testing.T) {
	mgr, accounts := newTestManager("")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)
	session := openSession(t, router)

	req := httptest.NewRequest(http.MethodPost, "/forms/"+session.ID+"/submit", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Outcome string      `json:"outcome"`
		Session FormSession `json:"session"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if out.Outcome != "success" {
		t.Fatalf("expected success outcome, got %q: %s", out.Outcome, resp.Body.String())
	}
	if accounts.UpdateCalls != 1 {
		t.Errorf("expected one update call, got %d", accounts.UpdateCalls)
	}
	if len(out.Session.Notices) == 0 {
		t.Error("expected a notice after successful submit")
	}
}

func TestSubmitFormValidationFailure(t *testing.T) {
	mgr, accounts := newTestManager("")
	accounts.SetTaken("Taken Name")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)
	session := openSession(t, router)

	patch := httptest.NewRequest(http.MethodPatch, "/forms/"+session.ID+"/fields",
		strings.NewReader(`{"fullName":"Taken Name"}`))
	patch.Header.Set("Content-Type", "application/json")
	patch.Header.Set("Authorization", "Bearer valid-token")
	router.ServeHTTP(httptest.NewRecorder(), patch)

	req := httptest.NewRequest(http.MethodPost, "/forms/"+session.ID+"/submit", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Outcome string      `json:"outcome"`
		Session FormSession `json:"session"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if out.Outcome != "validation_failure" {
		t.Fatalf("expected validation_failure, got %q", out.Outcome)
	}
	if accounts.UpdateCalls != 0 {
		t.Errorf("expected no update call, got %d", accounts.UpdateCalls)
	}
}

func TestCloseForm(t *testing.T) {
	mgr, _ := newTestManager("")
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(mgr, verifier)
	session := openSession(t, router)

	req := httptest.NewRequest(http.MethodDelete, "/forms/"+session.ID, nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.Code, resp.Body.String())
	}

	get := httptest.NewRequest(http.MethodGet, "/forms/"+session.ID, nil)
	get.Header.Set("Authorization", "Bearer valid-token")
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, get)

	if getResp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after close, got %d", getResp.Code)
	}
}
