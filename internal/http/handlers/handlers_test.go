package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/freedom_case_2/callemail/internal/db"
	"github.com/freedom_case_2/callemail/internal/refdata"
	"github.com/freedom_case_2/callemail/internal/service"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := db.NewMemory()
	h := &Handler{
		Service: &service.CallEmailService{Repo: repo, Refs: refdata.Default(), Logger: zerolog.Nop()},
		Repo:    repo,
		Refs:    refdata.Default(),
		Logger:  zerolog.Nop(),
	}
	r := gin.New()
	r.GET("/call_email/:id", h.GetCallEmail)
	r.POST("/call_email/", h.CreateCallEmail)
	r.POST("/call_email/:id/draft/", h.SaveDraft)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateEmptyBody(t *testing.T) {
	r := newEngine()
	w := serve(r, http.MethodPost, "/call_email/", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"number":"CE000001"`) {
		t.Fatalf("placeholder number missing: %s", w.Body.String())
	}
}

func TestCreateInvalidJSON(t *testing.T) {
	w := serve(newEngine(), http.MethodPost, "/call_email/", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"code":"INVALID_REQUEST"`) {
		t.Fatalf("expected error envelope, got %s", w.Body.String())
	}
}

func TestRecordIDMustBeNumeric(t *testing.T) {
	w := serve(newEngine(), http.MethodGet, "/call_email/abc", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSaveDraftMissingRecord(t *testing.T) {
	w := serve(newEngine(), http.MethodPost, "/call_email/7/draft/", "{}")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUserIDHeader(t *testing.T) {
	r := newEngine()
	req := httptest.NewRequest(http.MethodPost, "/call_email/", nil)
	req.Header.Set(UserIDHeader, "12")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"current_user_id":12`) {
		t.Fatalf("expected current_user_id from header: %s", w.Body.String())
	}
}
