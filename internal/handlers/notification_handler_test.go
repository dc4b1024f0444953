package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintra/internal/errors"
	"fintra/internal/models"
	"fintra/internal/pagination"
	"fintra/internal/services"
)

// --- mock notification service ---

type mockNotificationService struct {
	appendFn               func(userID, dedupKey, title, message, category string) (*models.Notification, error)
	getUserNotificationsFn func(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	unreadCountFn          func(userID string) (int64, error)
	markReadFn             func(userID, notificationID string) error
	markAllReadFn          func(userID string) error
	clearAllFn             func(userID string) error
}

func (m *mockNotificationService) Append(userID, dedupKey, title, message, category string) (*models.Notification, error) {
	if m.appendFn != nil {
		return m.appendFn(userID, dedupKey, title, message, category)
	}
	return &models.Notification{}, nil
}

func (m *mockNotificationService) GetUserNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
	if m.getUserNotificationsFn != nil {
		return m.getUserNotificationsFn(userID, page, unreadOnly)
	}
	resp := pagination.NewPageResponse([]models.Notification{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockNotificationService) UnreadCount(userID string) (int64, error) {
	if m.unreadCountFn != nil {
		return m.unreadCountFn(userID)
	}
	return 0, nil
}

func (m *mockNotificationService) MarkRead(userID, notificationID string) error {
	if m.markReadFn != nil {
		return m.markReadFn(userID, notificationID)
	}
	return nil
}

func (m *mockNotificationService) MarkAllRead(userID string) error {
	if m.markAllReadFn != nil {
		return m.markAllReadFn(userID)
	}
	return nil
}

func (m *mockNotificationService) ClearAll(userID string) error {
	if m.clearAllFn != nil {
		return m.clearAllFn(userID)
	}
	return nil
}

func (m *mockNotificationService) KeysForDay(_ string, _ time.Time) ([]string, error) {
	return nil, nil
}

var _ services.NotificationServicer = (*mockNotificationService)(nil)

const testNotificationID = "0198a3e2-4b6c-7000-8000-0000000000cc"

func setupNotificationRouter(handler *NotificationHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/notifications", handler.GetNotifications)
	auth.GET("/notifications/unread-count", handler.GetUnreadCount)
	auth.POST("/notifications/:id/read", handler.MarkRead)
	auth.POST("/notifications/read-all", handler.MarkAllRead)
	auth.DELETE("/notifications", handler.ClearAll)
	return r
}

func TestNotificationHandler_GetNotifications(t *testing.T) {
	t.Run("returns 200 with paginated notifications", func(t *testing.T) {
		notifSvc := &mockNotificationService{
			getUserNotificationsFn: func(_ string, _ pagination.PageRequest, _ bool) (*pagination.PageResponse[models.Notification], error) {
				resp := pagination.NewPageResponse([]models.Notification{
					{
						Base:     models.Base{ID: testNotificationID},
						Title:    "Budget alert",
						Message:  "You have used 92% of your Food budget (462.50 of 500.00 spent).",
						Category: "Food",
					},
				}, 1, 20, 1)
				return &resp, nil
			},
		}
		handler := NewNotificationHandler(notifSvc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "GET", "/notifications", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(data))
		}
		notif := data[0].(map[string]interface{})
		if notif["title"] != "Budget alert" {
			t.Errorf("expected title Budget alert, got %v", notif["title"])
		}
	})

	t.Run("passes unread_only flag to service", func(t *testing.T) {
		var capturedUnreadOnly bool
		notifSvc := &mockNotificationService{
			getUserNotificationsFn: func(_ string, _ pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
				capturedUnreadOnly = unreadOnly
				resp := pagination.NewPageResponse([]models.Notification{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewNotificationHandler(notifSvc)
		r := setupNotificationRouter(handler)

		doRequest(r, "GET", "/notifications?unread_only=true", "")

		if !capturedUnreadOnly {
			t.Error("expected unread_only=true to reach service")
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewNotificationHandler(&mockNotificationService{})
		r := gin.New()
		r.GET("/notifications", handler.GetNotifications)

		rec := doRequest(r, "GET", "/notifications", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestNotificationHandler_GetUnreadCount(t *testing.T) {
	t.Run("returns 200 with count", func(t *testing.T) {
		notifSvc := &mockNotificationService{
			unreadCountFn: func(_ string) (int64, error) { return 3, nil },
		}
		handler := NewNotificationHandler(notifSvc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "GET", "/notifications/unread-count", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["unread_count"].(float64) != 3 {
			t.Errorf("expected unread_count 3, got %v", result["unread_count"])
		}
	})
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		var markedID string
		notifSvc := &mockNotificationService{
			markReadFn: func(_, notificationID string) error {
				markedID = notificationID
				return nil
			},
		}
		handler := NewNotificationHandler(notifSvc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "POST", "/notifications/"+testNotificationID+"/read", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if markedID != testNotificationID {
			t.Errorf("expected mark of %s, got %s", testNotificationID, markedID)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		notifSvc := &mockNotificationService{
			markReadFn: func(_, _ string) error {
				return apperrors.ErrNotificationNotFound
			},
		}
		handler := NewNotificationHandler(notifSvc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "POST", "/notifications/"+testNotificationID+"/read", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOTIFICATION_NOT_FOUND")
	})

	t.Run("returns 400 on malformed ID", func(t *testing.T) {
		handler := NewNotificationHandler(&mockNotificationService{})
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "POST", "/notifications/abc/read", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		called := false
		notifSvc := &mockNotificationService{
			markAllReadFn: func(_ string) error {
				called = true
				return nil
			},
		}
		handler := NewNotificationHandler(notifSvc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "POST", "/notifications/read-all", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if !called {
			t.Error("expected MarkAllRead to be called")
		}
	})
}

func TestNotificationHandler_ClearAll(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		called := false
		notifSvc := &mockNotificationService{
			clearAllFn: func(_ string) error {
				called = true
				return nil
			},
		}
		handler := NewNotificationHandler(notifSvc)
		r := setupNotificationRouter(handler)

		rec := doRequest(r, "DELETE", "/notifications", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if !called {
			t.Error("expected ClearAll to be called")
		}
	})
}
