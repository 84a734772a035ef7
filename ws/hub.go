package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vnkhanh/ai-learning-journal/utils"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub giữ các kết nối theo userID
type Hub struct {
	Clients map[string]map[*websocket.Conn]*Client
	Mutex   sync.RWMutex
}

var H = NewHub()

func NewHub() *Hub {
	return &Hub{Clients: make(map[string]map[*websocket.Conn]*Client)}
}

// Event gửi cho client, client nhận journal_list_changed thì tải lại danh sách
type Event struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id,omitempty"`
	JournalID string `json:"journal_id,omitempty"`
	QuizID    string `json:"quiz_id,omitempty"`
}

const (
	EventJournalListChanged = "journal_list_changed"
	EventQuizGraded         = "quiz_graded"
)

func (h *Hub) Register(userID string, conn *websocket.Conn) *Client {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Clients[userID]; !ok {
		h.Clients[userID] = make(map[*websocket.Conn]*Client)
	}
	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.Clients[userID][conn] = client
	return client
}

func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[userID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Clients, userID)
		}
	}
}

// Broadcast gửi cho mọi kết nối của user, client đầy buffer thì bỏ qua
func (h *Hub) Broadcast(userID string, data []byte) int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	sent := 0
	for _, client := range h.Clients[userID] {
		select {
		case client.Send <- data:
			sent++
		default:
		}
	}
	return sent
}

func (h *Hub) Deliver(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		utils.Log.Warn("ws event marshal error", "error", err)
		return
	}
	h.Broadcast(ev.UserID, data)
}

func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	conns := 0
	for _, clients := range h.Clients {
		conns += len(clients)
	}
	return map[string]int{"users": len(h.Clients), "connections": conns}
}

func (h *Hub) writePump(client *Client) {
	defer func() {
		client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
		client.Conn.Close()
	}()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// Publish đẩy event qua redis nếu có bus, ngược lại giao thẳng cho hub local
func Publish(ev Event) {
	if bus := currentBus(); bus != nil {
		err := bus.Publish(ev)
		if err == nil {
			return
		}
		utils.Log.Warn("redis publish failed, delivering locally", "error", err)
	}
	H.Deliver(ev)
}

func BroadcastJournalListChanged(userID, journalID string) {
	Publish(Event{Type: EventJournalListChanged, UserID: userID, JournalID: journalID})
}

func BroadcastQuizGraded(userID, journalID, quizID string) {
	Publish(Event{Type: EventQuizGraded, UserID: userID, JournalID: journalID, QuizID: quizID})
}
