package apiserver

import (
	"errors"
	"log"
	"net/http"

	"hobbies-go/internal/middleware"
	"hobbies-go/internal/services"
	"hobbies-go/internal/storage"

	"github.com/gorilla/mux"
)

// NotificationHandler handles HTTP requests for the notification feed.
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(ns services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: ns}
}

// ListNotificationsHandler 返回当前用户的全部通知，新的在前。GET /api/notifications/
func (h *NotificationHandler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "无法从上下文中获取用户ID", http.StatusUnauthorized)
		return
	}

	notifications, err := h.notificationService.List(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing notifications for user %d: %v", userID, err)
		writeJSONError(w, "获取通知列表失败", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// MarkNotificationReadHandler 将一条通知标记为已读。POST /api/notifications/{notificationID}/read
func (h *NotificationHandler) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "无法从上下文中获取用户ID", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	notificationID, err := storage.StrToUint(vars["notificationID"])
	if err != nil {
		writeJSONError(w, "无效的通知ID格式", http.StatusBadRequest)
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), userID, notificationID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotificationNotFound):
			writeJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNotNotificationOwner):
			writeJSONError(w, err.Error(), http.StatusForbidden)
		default:
			log.Printf("Error marking notification %d read by user %d: %v", notificationID, userID, err)
			writeJSONError(w, "标记通知已读失败", http.StatusInternalServerError)
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "通知已标记为已读"})
}
