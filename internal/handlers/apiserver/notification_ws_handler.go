package apiserver

import (
	"log"
	"net/http"

	"hobbies-go/internal/auth"
	"hobbies-go/internal/config"
	ws "hobbies-go/internal/websocket"
)

// NotificationWSHandler 负责处理通知推送的 WebSocket 连接请求。
type NotificationWSHandler struct {
	hub            *ws.Hub
	cfg            config.Config
	tokenBlacklist auth.TokenBlacklist
}

// NewNotificationWSHandler 创建一个新的 NotificationWSHandler 实例。
func NewNotificationWSHandler(hub *ws.Hub, cfg config.Config, tokenBlacklist auth.TokenBlacklist) *NotificationWSHandler {
	return &NotificationWSHandler{hub: hub, cfg: cfg, tokenBlacklist: tokenBlacklist}
}

// ServeWS 处理传入的 WebSocket 请求。GET /ws/notifications?token=
// 浏览器的 WebSocket API 不能自定义头部，所以令牌通过查询参数传递。
func (h *NotificationWSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSONError(w, "缺少认证令牌", http.StatusUnauthorized)
		return
	}

	claims, err := auth.ValidateToken(r.Context(), token, h.cfg.Auth.JWTSecretKey, h.tokenBlacklist)
	if err != nil {
		log.Printf("WebSocket 连接尝试失败：令牌无效: %v", err)
		writeJSONError(w, "令牌无效", http.StatusUnauthorized)
		return
	}

	if err := ws.ServeClient(h.hub, w, r, claims.UserID, h.cfg.WebSocket); err != nil {
		// Upgrade 失败时 gorilla 已经写了响应，这里只记录
		log.Printf("WebSocket 升级失败 (用户 %d): %v", claims.UserID, err)
	}
}
