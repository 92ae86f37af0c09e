package websocket

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a websocket connection to sessionID and blocks until
// it closes.
func ServeWs(hub *Hub, conn *websocket.Conn, sessionID string) {
	client := newClient(hub, conn, sessionID)
	hub.register <- client

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go client.writePump(ticker.C)
	client.readPump()
}
