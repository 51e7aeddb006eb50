package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mlevkov/authd/internal/common"
	"github.com/mlevkov/authd/internal/logging"
	"github.com/mlevkov/authd/internal/server/models"
)

// stubAuth provides canned responses for the transport tests.
type stubAuth struct {
	registerUser *models.User
	registerErr  error

	validLogin bool

	sessionToken string
	sessionErr   error

	resolvedUser *models.User
	resolveErr   error

	destroyedID string

	resetToken string
	resetErr   error

	applyErr error
}

func (a *stubAuth) Register(ctx context.Context, email, password string) (*models.User, error) {
	if a.registerErr != nil {
		return nil, a.registerErr
	}
	return a.registerUser, nil
}

func (a *stubAuth) ValidateLogin(ctx context.Context, email, password string) bool {
	return a.validLogin
}

func (a *stubAuth) CreateSession(ctx context.Context, email string) (string, error) {
	if a.sessionErr != nil {
		return "", a.sessionErr
	}
	return a.sessionToken, nil
}

func (a *stubAuth) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	if a.resolveErr != nil {
		return nil, a.resolveErr
	}
	return a.resolvedUser, nil
}

func (a *stubAuth) DestroySession(ctx context.Context, userID string) {
	a.destroyedID = userID
}

func (a *stubAuth) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if a.resetErr != nil {
		return "", a.resetErr
	}
	return a.resetToken, nil
}

func (a *stubAuth) ApplyPasswordReset(ctx context.Context, token, newPassword string) error {
	return a.applyErr
}

func newTestServer(a AuthService) *Server {
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(":0", l, a, "session_id")
}

func postForm(t *testing.T, h http.Handler, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestWelcome(t *testing.T) {
	srv := newTestServer(&stubAuth{})
	w := postForm(t, srv.Router(), http.MethodGet, "/", nil, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Bienvenue") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRegister_Success(t *testing.T) {
	srv := newTestServer(&stubAuth{
		registerUser: &models.User{ID: "u-1", Email: "bob@me.com"},
	})

	form := url.Values{"email": {"bob@me.com"}, "password": {"mySuperPwd"}}
	w := postForm(t, srv.Router(), http.MethodPost, "/users", form, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"message":"user created"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRegister_Duplicate(t *testing.T) {
	srv := newTestServer(&stubAuth{registerErr: common.ErrAlreadyExists})

	form := url.Values{"email": {"bob@me.com"}, "password": {"x"}}
	w := postForm(t, srv.Router(), http.MethodPost, "/users", form, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "email already registered") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	srv := newTestServer(&stubAuth{registerErr: common.ErrInvalidInput})

	w := postForm(t, srv.Router(), http.MethodPost, "/users", url.Values{}, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	srv := newTestServer(&stubAuth{validLogin: true, sessionToken: "tok-123"})

	form := url.Values{"email": {"bob@me.com"}, "password": {"mySuperPwd"}}
	w := postForm(t, srv.Router(), http.MethodPost, "/sessions", form, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" && c.Value == "tok-123" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected session_id cookie with the issued token")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := newTestServer(&stubAuth{validLogin: false})

	form := url.Values{"email": {"bob@me.com"}, "password": {"nope"}}
	w := postForm(t, srv.Router(), http.MethodPost, "/sessions", form, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("no cookie may be set on failed login")
	}
}

func TestProfile_WithValidSession(t *testing.T) {
	srv := newTestServer(&stubAuth{
		resolvedUser: &models.User{ID: "u-1", Email: "bob@me.com"},
	})

	cookie := &http.Cookie{Name: "session_id", Value: "tok-123"}
	w := postForm(t, srv.Router(), http.MethodGet, "/profile", nil, cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "bob@me.com") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestProfile_NoSession(t *testing.T) {
	srv := newTestServer(&stubAuth{resolveErr: common.ErrNotFound})

	w := postForm(t, srv.Router(), http.MethodGet, "/profile", nil, nil)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestLogout_DestroysSessionAndRedirects(t *testing.T) {
	stub := &stubAuth{
		resolvedUser: &models.User{ID: "u-1", Email: "bob@me.com"},
	}
	srv := newTestServer(stub)

	cookie := &http.Cookie{Name: "session_id", Value: "tok-123"}
	w := postForm(t, srv.Router(), http.MethodDelete, "/sessions", nil, cookie)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if stub.destroyedID != "u-1" {
		t.Fatalf("expected DestroySession for u-1, got %q", stub.destroyedID)
	}
}

func TestLogout_UnknownSession(t *testing.T) {
	srv := newTestServer(&stubAuth{resolveErr: common.ErrNotFound})

	w := postForm(t, srv.Router(), http.MethodDelete, "/sessions", nil, nil)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestResetToken_Success(t *testing.T) {
	srv := newTestServer(&stubAuth{resetToken: "rt-1"})

	form := url.Values{"email": {"bob@me.com"}}
	w := postForm(t, srv.Router(), http.MethodPost, "/reset_password", form, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"reset_token":"rt-1"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestResetToken_UnknownEmail(t *testing.T) {
	srv := newTestServer(&stubAuth{resetErr: common.ErrNotFound})

	form := url.Values{"email": {"ghost@me.com"}}
	w := postForm(t, srv.Router(), http.MethodPost, "/reset_password", form, nil)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestUpdatePassword_Success(t *testing.T) {
	srv := newTestServer(&stubAuth{})

	form := url.Values{
		"email":        {"bob@me.com"},
		"reset_token":  {"rt-1"},
		"new_password": {"newPwd"},
	}
	w := postForm(t, srv.Router(), http.MethodPut, "/reset_password", form, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Password updated") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestUpdatePassword_InvalidToken(t *testing.T) {
	srv := newTestServer(&stubAuth{applyErr: common.ErrInvalidToken})

	form := url.Values{
		"email":        {"bob@me.com"},
		"reset_token":  {"stale"},
		"new_password": {"newPwd"},
	}
	w := postForm(t, srv.Router(), http.MethodPut, "/reset_password", form, nil)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&stubAuth{})
	router := srv.Router()

	// generate one request so the counter exists
	postForm(t, router, http.MethodGet, "/", nil, nil)

	w := postForm(t, router, http.MethodGet, "/metrics", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "authd_http_requests_total") {
		t.Fatal("expected authd_http_requests_total in metrics output")
	}
}
