package notify

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"aspire/pkg/logging"
)

func newTestRouter(t *testing.T, sender EmailSender) *gin.Engine {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return newTestRouterWithDB(sender, db)
}

func newTestRouterWithDB(sender EmailSender, db *sql.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logging.NewLogger()
	handler := NewHandler(NewNotifier(sender, "cs@example.org", logger), NewContactStore(db), logger)
	router := gin.New()
	api := router.Group("/api")
	handler.RegisterRoutes(api)
	return router
}

func postNotification(t *testing.T, router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return postNotificationTo(t, router, "/api/notifications", body)
}

func postNotificationTo(t *testing.T, router *gin.Engine, path string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleNotificationSuccess(t *testing.T) {
	sender := &fakeSender{}
	router := newTestRouter(t, sender)

	w := postNotification(t, router, map[string]interface{}{
		"tenantId":      "hinchinbrook",
		"requestType":   "pothole",
		"residentName":  "Jo Smith",
		"residentPhone": "0400 000 000",
		"details":       "Large pothole on Main St.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["recipientEmail"] != "cs@example.org" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHandleNotificationMissingFields(t *testing.T) {
	router := newTestRouter(t, &fakeSender{})

	w := postNotification(t, router, map[string]interface{}{
		"requestType": "pothole",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "residentName") {
		t.Fatalf("missing fields not named: %s", w.Body.String())
	}
}

func TestHandleNotificationDeliveryFailure(t *testing.T) {
	router := newTestRouter(t, &fakeSender{err: errors.New("smtp connect timeout")})

	w := postNotification(t, router, map[string]interface{}{
		"requestType":   "pothole",
		"residentName":  "Jo Smith",
		"residentPhone": "0400 000 000",
		"details":       "Large pothole on Main St.",
	})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "smtp connect timeout") {
		t.Fatalf("error not forwarded: %s", w.Body.String())
	}
}
