package sinks

import (
	"context"
	"encoding/json"
	"log"
	nethttp "net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"skillhit/logging"
)

// WebSocket broadcasts every event as a JSON text frame to all connected
// clients. It is both a logging.Sink and the http.Handler clients dial.
type WebSocket struct {
	logger       *log.Logger
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	clientBuffer int

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func NewWebSocket(cfg logging.WebSocketConfig, logger *log.Logger) *WebSocket {
	if logger == nil {
		logger = log.Default()
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Second
	}
	clientBuffer := cfg.ClientBuffer
	if clientBuffer <= 0 {
		clientBuffer = 64
	}
	return &WebSocket{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
		writeTimeout: writeTimeout,
		clientBuffer: clientBuffer,
		clients:      make(map[*wsClient]struct{}),
	}
}

func (s *WebSocket) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("event feed upgrade failed: %v", err)
		return
	}
	client := &wsClient{conn: conn, send: make(chan []byte, s.clientBuffer)}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed")
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		return
	}
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	go s.writeLoop(client)
	// The feed is one-way; reading only detects the peer going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.drop(client)
			return
		}
	}
}

// Clients reports the number of connected subscribers.
func (s *WebSocket) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *WebSocket) Write(event logging.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		select {
		case client.send <- data:
		default:
			s.logger.Printf("event feed client backlog full, disconnecting")
			delete(s.clients, client)
			client.close()
		}
	}
	return nil
}

func (s *WebSocket) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for client := range s.clients {
		delete(s.clients, client)
		client.close()
	}
	return nil
}

func (s *WebSocket) writeLoop(client *wsClient) {
	defer client.conn.Close()
	for data := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.drop(client)
			return
		}
	}
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	client.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(s.writeTimeout))
}

func (s *WebSocket) drop(client *wsClient) {
	s.mu.Lock()
	delete(s.clients, client)
	s.mu.Unlock()
	client.close()
}

func (c *wsClient) close() {
	c.once.Do(func() { close(c.send) })
}
