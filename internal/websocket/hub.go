package websocket

import (
	"log"
)

// push 是一条待投递给指定用户的负载。
type push struct {
	UserID  uint
	Payload []byte
}

// Hub maintains the set of active notification clients and delivers payloads
// to them by user ID. Assumes one connection per user ID; a new connection
// for the same user replaces the old one.
type Hub struct {
	// Registered clients, mapping UserID to Client.
	clients map[uint]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Payloads aimed at a specific user.
	direct chan push
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uint]*Client),
		direct:     make(chan push, 256),
	}
}

// Deliver queues a payload for the given user. Non-blocking: if the hub is
// backed up the payload is dropped. 通知行已经落库，推送只是尽力而为。
func (h *Hub) Deliver(userID uint, payload []byte) {
	select {
	case h.direct <- push{UserID: userID, Payload: payload}:
	default:
		log.Printf("警告: Hub direct channel is full. Dropping push for user %d", userID)
	}
}

// Run starts the hub and listens for registration and delivery events.
func (h *Hub) Run() {
	log.Println("WebSocket Hub Run loop started.")
	for {
		select {
		case client := <-h.register:
			if existingClient, ok := h.clients[client.UserID]; ok {
				log.Printf("警告: 用户 %d 已有连接，关闭旧连接并注册新连接。", client.UserID)
				close(existingClient.send)
			}
			h.clients[client.UserID] = client
			log.Printf("用户 %d 的通知连接已注册。当前在线: %d", client.UserID, len(h.clients))

		case client := <-h.unregister:
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
				close(client.send)
				log.Printf("用户 %d 的通知连接已注销。当前在线: %d", client.UserID, len(h.clients))
			}

		case p := <-h.direct:
			client, ok := h.clients[p.UserID]
			if !ok {
				continue // 用户不在线，忽略
			}
			select {
			case client.send <- p.Payload:
			default:
				// 客户端写缓冲已满，视为失联
				delete(h.clients, client.UserID)
				close(client.send)
			}
		}
	}
}
