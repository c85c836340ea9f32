package ws

import (
	"encoding/json"
	"sync"

	"task-manager-api/internal/models"

	"github.com/gofiber/websocket/v2"
)

// Client merepresentasikan satu koneksi WebSocket milik satu user.
type Client struct {
	UserID int
	Conn   *websocket.Conn
	Mu     sync.Mutex
}

// Event adalah pesan yang dikirim ke semua koneksi milik satu user.
type Event struct {
	UserID int
	Data   []byte
}

// Hub mengelola koneksi WebSocket dan pengiriman event task
// ke client pemiliknya saja.
type Hub struct {
	Clients    map[*Client]bool
	Events     chan Event
	Register   chan *Client
	Unregister chan *Client
}

// NewHub membuat instance Hub baru.
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Events:     make(chan Event, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run menjalankan loop Hub untuk mengelola register, unregister,
// dan pengiriman event.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Conn.Close()
			}
		case event := <-h.Events:
			for client := range h.Clients {
				if client.UserID != event.UserID {
					continue
				}
				client.Mu.Lock()
				err := client.Conn.WriteMessage(websocket.TextMessage, event.Data)
				client.Mu.Unlock()
				if err != nil {
					delete(h.Clients, client)
					client.Conn.Close()
				}
			}
		}
	}
}

// PublishTask mengirim event lifecycle task (created/updated/deleted)
// ke semua koneksi milik pemilik task. Aman dipanggil pada hub nil,
// dan tidak pernah mem-block handler: event di-drop jika channel penuh.
func (h *Hub) PublishTask(event string, task *models.Task) {
	if h == nil {
		return
	}
	data, err := json.Marshal(map[string]interface{}{
		"event": event,
		"task":  task,
	})
	if err != nil {
		return
	}
	select {
	case h.Events <- Event{UserID: task.UserID, Data: data}:
	default:
	}
}
