package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kumarpraveer143/easyrent-sub000/internal/config"
	"github.com/kumarpraveer143/easyrent-sub000/internal/domain"
	"github.com/kumarpraveer143/easyrent-sub000/internal/middleware"
	"github.com/kumarpraveer143/easyrent-sub000/internal/service"
	"github.com/kumarpraveer143/easyrent-sub000/internal/store"
)

const testJWTSecret = "test-secret"

type httpFixture struct {
	router        *gin.Engine
	messages      store.MessageStore
	notifications store.NotificationStore
	notifSvc      service.NotificationService
}

// Deliverer that always misses: the REST surface under test must not
// depend on anyone being online.
type offlineDeliverer struct{}

func (offlineDeliverer) DeliverToUser(string, interface{}) bool { return false }

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.Open(config.DatabaseConfig{Driver: "sqlite", FilePath: t.TempDir() + "/test.db"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	messages := store.NewMessageStore(db)
	notifications := store.NewNotificationStore(db)

	historySvc := service.NewChatHistoryService(messages, nil, 0)
	notifSvc := service.NewNotificationService(notifications, offlineDeliverer{})

	router := gin.New()
	NewHTTPHandler(historySvc, notifSvc, testJWTSecret).RegisterRoutes(router)

	return &httpFixture{
		router:        router,
		messages:      messages,
		notifications: notifications,
		notifSvc:      notifSvc,
	}
}

func (f *httpFixture) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func signTestToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.SignToken(testJWTSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestGetMessages(t *testing.T) {
	f := newHTTPFixture(t)
	ctx := context.Background()

	if _, err := f.messages.Append(ctx, "rel1", "renter", "hello"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := f.messages.Append(ctx, "rel1", "landowner", "hi back"); err != nil {
		t.Fatalf("append: %v", err)
	}

	w, resp := f.do(t, http.MethodGet, "/chat/rel1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	msgs := resp["messages"].([]interface{})
	if len(msgs) != 2 {
		t.Fatalf("want 2 messages, got %d", len(msgs))
	}
	first := msgs[0].(map[string]interface{})
	if first["message"] != "hello" || first["senderId"] != "renter" {
		t.Fatalf("unexpected first message: %v", first)
	}
}

func TestGetMessagesEmptyRelation(t *testing.T) {
	f := newHTTPFixture(t)

	w, resp := f.do(t, http.MethodGet, "/chat/never-used", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	msgs, ok := resp["messages"].([]interface{})
	if !ok || len(msgs) != 0 {
		t.Fatalf("want empty array, got %v", resp["messages"])
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	f := newHTTPFixture(t)
	ctx := context.Background()

	if _, err := f.messages.Append(ctx, "rel1", "landowner", "are you coming?"); err != nil {
		t.Fatalf("append: %v", err)
	}

	w, resp := f.do(t, http.MethodGet, "/chat/unread/rel1/renter", "", nil)
	if w.Code != http.StatusOK || resp["count"].(float64) != 1 {
		t.Fatalf("want count 1, got %d: %v", w.Code, resp)
	}

	w, resp = f.do(t, http.MethodPost, "/chat/read", "", map[string]string{"relationId": "rel1", "userId": "renter"})
	if w.Code != http.StatusOK || resp["success"] != true {
		t.Fatalf("mark read failed: %d %v", w.Code, resp)
	}

	_, resp = f.do(t, http.MethodGet, "/chat/unread/rel1/renter", "", nil)
	if resp["count"].(float64) != 0 {
		t.Fatalf("want count 0 after mark read, got %v", resp["count"])
	}
}

func TestMarkReadValidation(t *testing.T) {
	f := newHTTPFixture(t)

	w, resp := f.do(t, http.MethodPost, "/chat/read", "", map[string]string{"relationId": "rel1"})
	if w.Code != http.StatusBadRequest || resp["success"] != false {
		t.Fatalf("want 400, got %d: %v", w.Code, resp)
	}
}

func TestNotificationsRequireAuth(t *testing.T) {
	f := newHTTPFixture(t)

	w, _ := f.do(t, http.MethodGet, "/notifications", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401 without token, got %d", w.Code)
	}

	w, _ = f.do(t, http.MethodGet, "/notifications", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401 with garbage token, got %d", w.Code)
	}
}

func TestNotificationListAndCounts(t *testing.T) {
	f := newHTTPFixture(t)
	ctx := context.Background()

	if _, _, err := f.notifSvc.Notify(ctx, "landowner", domain.NotificationRequestReceived, "new request for room 101", "room1", "101"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if _, _, err := f.notifSvc.Notify(ctx, "landowner", domain.NotificationRequestWithdrawn, "request withdrawn", "room1", "101"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	// Someone else's notification must never show up.
	if _, _, err := f.notifSvc.Notify(ctx, "renter", domain.NotificationRequestAccepted, "accepted", "room2", "102"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	token := signTestToken(t, "landowner")

	w, resp := f.do(t, http.MethodGet, "/notifications", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	ns := resp["notifications"].([]interface{})
	if len(ns) != 2 {
		t.Fatalf("want 2 notifications, got %d", len(ns))
	}
	newest := ns[0].(map[string]interface{})
	if newest["type"] != string(domain.NotificationRequestWithdrawn) {
		t.Fatalf("want newest first, got %v", newest["type"])
	}

	_, resp = f.do(t, http.MethodGet, "/notifications/unread", token, nil)
	if resp["count"].(float64) != 2 {
		t.Fatalf("want 2 unread, got %v", resp["count"])
	}
}

func TestMarkNotificationRead(t *testing.T) {
	f := newHTTPFixture(t)

	n, _, err := f.notifSvc.Notify(context.Background(), "landowner", domain.NotificationRequestReceived, "new request", "room1", "101")
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	token := signTestToken(t, "landowner")

	w, resp := f.do(t, http.MethodPatch, "/notifications/"+n.ID+"/read", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := resp["notification"].(map[string]interface{})
	if updated["read"] != true {
		t.Fatalf("notification should be read: %v", updated)
	}

	w, _ = f.do(t, http.MethodPatch, "/notifications/no-such-id/read", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404 for unknown id, got %d", w.Code)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	f := newHTTPFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := f.notifSvc.Notify(ctx, "landowner", domain.NotificationRequestReceived, "request", "room1", "101"); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}

	token := signTestToken(t, "landowner")

	w, resp := f.do(t, http.MethodPatch, "/notifications/read-all", token, nil)
	if w.Code != http.StatusOK || resp["success"] != true {
		t.Fatalf("mark all failed: %d %v", w.Code, resp)
	}

	_, resp = f.do(t, http.MethodGet, "/notifications/unread", token, nil)
	if resp["count"].(float64) != 0 {
		t.Fatalf("want 0 unread, got %v", resp["count"])
	}
}

func TestHealthCheck(t *testing.T) {
	f := newHTTPFixture(t)

	w, resp := f.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("health check failed: %d %v", w.Code, resp)
	}
}
