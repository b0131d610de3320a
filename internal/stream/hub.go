package stream

import (
	"encoding/json"
	"net/http"
	"sync"

	"canvas-grid/internal/log"

	"github.com/gorilla/websocket"
)

const sendBuffer = 64

// Command is a client request, sent as a JSON text message.
type Command struct {
	Op         string  `json:"op"`
	Camera     int     `json:"camera"`
	R          float64 `json:"r"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Absolute   bool    `json:"absolute"`
	DurationMS int     `json:"duration_ms"`
}

// Hub tracks connected clients and fans frames out to them.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger
	onJoin   func() [][]byte
	onCmd    func(Command)

	mutex   sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	ws   *websocket.Conn
	send chan []byte
}

// NewHub returns a hub. onJoin supplies frames sent to each new client
// before any broadcast; onCmd receives decoded commands. Either may be nil.
func NewHub(logger *log.Logger, onJoin func() [][]byte, onCmd func(Command)) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		onJoin:  onJoin,
		onCmd:   onCmd,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and serves the client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("upgrade %s: %v", r.RemoteAddr, err)
		return
	}
	c := &client{ws: ws, send: make(chan []byte, sendBuffer)}
	if h.onJoin != nil {
		for _, frame := range h.onJoin() {
			c.send <- frame
		}
	}
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()
	h.logger.Infof("client %s joined", r.RemoteAddr)

	go h.writePump(c)
	h.readPump(c)

	h.mutex.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mutex.Unlock()
	h.logger.Infof("client %s left", r.RemoteAddr)
}

// Broadcast queues a binary frame for every client. Clients whose buffer
// is full are dropped.
func (h *Hub) Broadcast(frame []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.logger.Warnf("dropping slow client %s", c.ws.RemoteAddr())
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) readPump(c *client) {
	defer c.ws.Close()
	for {
		kind, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warnf("read: %v", err)
			}
			return
		}
		if kind != websocket.TextMessage || h.onCmd == nil {
			continue
		}
		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			h.logger.Debugf("bad command %q: %v", message, err)
			continue
		}
		h.onCmd(cmd)
	}
}

func (h *Hub) writePump(c *client) {
	defer c.ws.Close()
	for message := range c.send {
		if err := c.ws.WriteMessage(websocket.BinaryMessage, message); err != nil {
			return
		}
	}
	c.ws.WriteMessage(websocket.CloseMessage, []byte{})
}
