package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestReplay_UsesStoredContentType(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	headers := make(http.Header)
	headers.Set("Content-Type", "application/pdf")
	replay(c, &cachedResponse{
		StatusCode: http.StatusOK,
		Body:       []byte("%PDF-1.4"),
		Headers:    headers,
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("expected stored content type to be replayed, got %q", got)
	}
	if w.Body.String() != "%PDF-1.4" {
		t.Errorf("expected stored body to be replayed, got %q", w.Body.String())
	}
	if !c.IsAborted() {
		t.Error("expected the request to be aborted after replay")
	}
}

func TestReplay_MissingContentType_DefaultsToJSON(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	replay(c, &cachedResponse{
		StatusCode: http.StatusCreated,
		Body:       []byte(`{"id":"booking-1"}`),
		Headers:    make(http.Header),
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("expected json fallback, got %q", got)
	}
}
