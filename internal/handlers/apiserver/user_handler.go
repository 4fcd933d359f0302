package apiserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"hobbies-go/internal/middleware"
	"hobbies-go/internal/services"
	"hobbies-go/internal/storage"

	"github.com/gorilla/mux"
)

// UserHandler 封装了用户资料与用户匹配相关的 HTTP 处理器方法。
type UserHandler struct {
	userService   services.UserService
	matchService  services.MatchService
	friendService services.FriendRequestService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService services.UserService, matchService services.MatchService, friendService services.FriendRequestService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		matchService:  matchService,
		friendService: friendService,
	}
}

// GetCurrentUserHandler 处理获取当前登录用户资料的请求。GET /api/users/current/
func (h *UserHandler) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "无法从上下文中获取用户ID", http.StatusUnauthorized)
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileUserNotFound) {
			writeJSONError(w, err.Error(), http.StatusNotFound)
		} else {
			log.Printf("Error fetching profile for user %d: %v", userID, err)
			writeJSONError(w, "获取用户信息失败", http.StatusInternalServerError)
		}
		return
	}
	writeJSONResponse(w, http.StatusOK, profile)
}

// ListFriendsHandler 处理获取当前用户好友列表的请求。GET /api/users/current/friends/
func (h *UserHandler) ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "无法从上下文中获取用户ID", http.StatusUnauthorized)
		return
	}

	friends, err := h.friendService.Friends(r.Context(), userID)
	if err != nil {
		log.Printf("Error fetching friends list for user %d: %v", userID, err)
		writeJSONError(w, "获取好友列表失败", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{"friends": friends})
}

// ListUsersHandler 处理按共同爱好排序的用户列表请求。
// GET /api/users/?min_age=&max_age=&page=
// 无法解析的数字参数按约定静默忽略，而不是报错。
func (h *UserHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "无法从上下文中获取用户ID", http.StatusUnauthorized)
		return
	}

	query := services.MatchQuery{Page: 1}
	if s := r.URL.Query().Get("min_age"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			query.MinAge = &v
		}
	}
	if s := r.URL.Query().Get("max_age"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			query.MaxAge = &v
		}
	}
	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			query.Page = v
		}
	}

	page, err := h.matchService.ListMatches(r.Context(), userID, query)
	if err != nil {
		log.Printf("Error listing matches for user %d: %v", userID, err)
		writeJSONError(w, "获取用户列表失败", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, page)
}

// GetUserHandler 处理获取指定用户资料的请求。GET /api/users/{userID}/
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, services.ErrProfileUserNotFound) {
			writeJSONError(w, err.Error(), http.StatusNotFound)
		} else {
			log.Printf("Error fetching profile for user %d: %v", targetID, err)
			writeJSONError(w, "获取用户信息失败", http.StatusInternalServerError)
		}
		return
	}
	writeJSONResponse(w, http.StatusOK, profile)
}

// UpdateUserRequest 是资料更新请求的结构体。
// 指针字段区分“没提交”与“提交了空值”，只有提交的字段会被更新。
type UpdateUserRequest struct {
	Username    *string   `json:"username,omitempty"`
	Password    *string   `json:"password,omitempty"`
	Name        *string   `json:"name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	Hobbies     *[]string `json:"hobbies,omitempty"` // 爱好名称列表，整体替换
}

// UpdateUserHandler 处理更新用户资料的请求。PUT /api/users/{userID}/
// 只能更新自己的资料，否则返回 403。
func (h *UserHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, "无法从上下文中获取用户ID", http.StatusUnauthorized)
		return
	}
	targetID, ok := pathUserID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "请求体无效", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	profile, err := h.userService.UpdateProfile(r.Context(), actorID, targetID, services.ProfileUpdate{
		Username:    req.Username,
		Password:    req.Password,
		Name:        req.Name,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
		Hobbies:     req.Hobbies,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotProfileOwner):
			writeJSONError(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, services.ErrProfileUserNotFound):
			writeJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, services.ErrInvalidDateOfBirth):
			writeJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error updating profile for user %d: %v", targetID, err)
			writeJSONError(w, "更新用户信息失败", http.StatusInternalServerError)
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "用户资料更新成功",
		"user":    profile,
	})
}

// pathUserID 从路径参数中提取 userID；失败时写入错误响应并返回 false。
func pathUserID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	userIDStr, ok := vars["userID"]
	if !ok {
		writeJSONError(w, "请求路径中缺少 userID", http.StatusBadRequest)
		return 0, false
	}
	userID, err := storage.StrToUint(userIDStr)
	if err != nil {
		writeJSONError(w, "无效的用户ID格式", http.StatusBadRequest)
		return 0, false
	}
	return userID, true
}
