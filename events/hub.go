// Package events pushes order and table changes to connected cashier
// screens over websocket. The hub is notification-only: consistency
// between orders and tables is handled transactionally in the services.
package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/restopos/backend/utils"
)

// Event types
const (
	EventOrderOpened      = "order_opened"
	EventOrderSplit       = "order_split"
	EventOrderSettled     = "order_settled"
	EventOrderCancelled   = "order_cancelled"
	EventOrderTransferred = "order_transferred"
	EventTableCreated     = "table_created"
	EventTableUpdated     = "table_updated"
	EventTableDeleted     = "table_deleted"
	EventStockLow         = "stock_low"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub keeps the set of connected clients keyed by role.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection to the broadcast set.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// Broadcast sends an event to every connected client. Write failures drop
// silently; a dead client will be unregistered by its reader loop.
func Broadcast(event string, data interface{}) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("events: marshal failed: %v", err)
		}
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			continue
		}
	}
}
