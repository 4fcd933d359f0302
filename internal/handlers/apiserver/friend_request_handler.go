package apiserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"hobbies-go/internal/middleware"
	"hobbies-go/internal/services"
)

// FriendRequestHandler handles HTTP requests related to friend requests.
type FriendRequestHandler struct {
	friendService services.FriendRequestService
}

// NewFriendRequestHandler creates a new FriendRequestHandler.
func NewFriendRequestHandler(fs services.FriendRequestService) *FriendRequestHandler {
	return &FriendRequestHandler{friendService: fs}
}

// SendFriendRequestPayload defines the expected JSON body for sending a friend request.
type SendFriendRequestPayload struct {
	ToUserID uint `json:"to_user_id"`
}

// RespondFriendRequestPayload defines the expected JSON body for responding to a request.
type RespondFriendRequestPayload struct {
	FriendRequestID uint   `json:"friend_request_id"`
	Action          string `json:"action"`
}

// ListPendingRequestsHandler 返回发给当前用户的全部待处理请求。GET /api/friend-requests/
func (h *FriendRequestHandler) ListPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "无法从上下文中获取用户ID", http.StatusUnauthorized)
		return
	}

	pendingRequests, err := h.friendService.ListPending(r.Context(), userID)
	if err != nil {
		log.Printf("Error fetching pending requests for user %d: %v", userID, err)
		writeJSONError(w, "获取待处理请求失败", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{"friend_requests": pendingRequests})
}

// SendFriendRequestHandler 以当前用户身份发送好友请求。POST /api/friend-requests/
func (h *FriendRequestHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	fromUserID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "无法从上下文中获取用户ID", http.StatusUnauthorized)
		return
	}

	var payload SendFriendRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, "请求体无效", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if payload.ToUserID == 0 {
		writeJSONError(w, "缺少接收者ID (to_user_id)", http.StatusBadRequest)
		return
	}

	request, err := h.friendService.Send(r.Context(), fromUserID, payload.ToUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFriendRequestSelf), errors.Is(err, services.ErrFriendRequestExists):
			writeJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrTargetUserNotFound):
			writeJSONError(w, err.Error(), http.StatusNotFound)
		default:
			log.Printf("Error sending friend request from %d to %d: %v", fromUserID, payload.ToUserID, err)
			writeJSONError(w, "发送好友请求失败", http.StatusInternalServerError)
		}
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"message":           "好友请求已发送",
		"friend_request_id": request.ID,
	})
}

// RespondFriendRequestHandler 以当前用户身份接受好友请求。PUT /api/friend-requests/
// 目前唯一定义的 action 是 "accept"。
func (h *FriendRequestHandler) RespondFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "无法从上下文中获取用户ID", http.StatusUnauthorized)
		return
	}

	var payload RespondFriendRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, "请求体无效", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if payload.FriendRequestID == 0 {
		writeJSONError(w, "缺少好友请求ID (friend_request_id)", http.StatusBadRequest)
		return
	}

	if err := h.friendService.Respond(r.Context(), actorID, payload.FriendRequestID, payload.Action); err != nil {
		switch {
		case errors.Is(err, services.ErrFriendRequestNotFound):
			writeJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNotRecipientOfRequest):
			writeJSONError(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, services.ErrInvalidAction):
			writeJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error accepting friend request %d by user %d: %v", payload.FriendRequestID, actorID, err)
			writeJSONError(w, "处理好友请求失败", http.StatusInternalServerError)
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "好友请求已接受"})
}
