// apps/go-server/internal/ws/hub.go
//
// WebSocket hub: the transport side of the game.
// Responsibilities:
//   - Upgrade HTTP requests and give each socket an opaque connection id.
//   - Keep group membership (one group per game session).
//   - Implement game.Messenger: serialise events into JSON envelopes and
//     queue them on per-connection send buffers without blocking.
//   - Decode inbound frames into commands for the CommandHandler.
//
// Notes:
//   - One reader and one writer goroutine per socket (client.go).
//   - A full send buffer drops the event with a warning; the game never waits
//     on a slow client.

package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"github.com/robalobadob/wordduel/apps/go-server/internal/game"
)

// CommandHandler receives the commands decoded from client sockets.
type CommandHandler interface {
	AddPendingConnection(connectionID string)
	RegisterName(connectionID, name string) error
	Guess(ctx context.Context, connectionID, text string) error
	RematchVote(connectionID string) error
	Disconnect(connectionID string) error
}

// Options tunes the hub.
type Options struct {
	SendBuffer     int           // queued outbound frames per connection
	RatePerSecond  float64       // inbound frames per second per connection
	RateBurst      int           // inbound burst allowance
	AllowedOrigin  string        // "" or "*" accepts any origin
	PingInterval   time.Duration // keep-alive ping period
	CommandTimeout time.Duration // bound on a single command's side effects
}

func (o Options) withDefaults() Options {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 16
	}
	if o.RatePerSecond <= 0 {
		o.RatePerSecond = 10
	}
	if o.RateBurst <= 0 {
		o.RateBurst = 20
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.CommandTimeout <= 0 {
		o.CommandTimeout = 5 * time.Second
	}
	return o
}

// envelope is the outbound wire format.
type envelope struct {
	Event string     `json:"event"`
	Data  game.Event `json:"data"`
}

// Hub tracks live sockets and groups.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	groups  map[string]map[string]struct{}

	opts     Options
	upgrader websocket.Upgrader
	validate *validator.Validate
}

// NewHub constructs an empty hub.
func NewHub(opts Options) *Hub {
	opts = opts.withDefaults()
	h := &Hub{
		clients:  make(map[string]*client),
		groups:   make(map[string]map[string]struct{}),
		opts:     opts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if opts.AllowedOrigin == "" || opts.AllowedOrigin == "*" {
				return true
			}
			return r.Header.Get("Origin") == opts.AllowedOrigin
		},
	}
	return h
}

// Handler returns the HTTP handler that upgrades requests and feeds handler.
func (h *Hub) Handler(handler CommandHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade")
			return
		}
		c := &client{
			id:      uuid.NewString(),
			hub:     h,
			conn:    conn,
			send:    make(chan []byte, h.opts.SendBuffer),
			limiter: rate.NewLimiter(rate.Limit(h.opts.RatePerSecond), h.opts.RateBurst),
		}
		h.register(c)
		log.Info().Str("conn", c.id).Str("remote", r.RemoteAddr).Msg("socket opened")

		go c.writePump(h.opts.PingInterval)
		handler.AddPendingConnection(c.id)
		c.readPump(handler)

		h.unregister(c)
		if err := handler.Disconnect(c.id); err != nil {
			log.Debug().Err(err).Str("conn", c.id).Msg("disconnect")
		}
		log.Info().Str("conn", c.id).Msg("socket closed")
	}
}

// SendToConnection implements game.Messenger.
func (h *Hub) SendToConnection(connectionID string, evt game.Event) {
	frame, ok := encode(evt)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[connectionID]; ok {
		c.enqueue(frame)
	}
}

// SendToGroup implements game.Messenger.
func (h *Hub) SendToGroup(groupID string, evt game.Event) {
	frame, ok := encode(evt)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id := range h.groups[groupID] {
		if c, ok := h.clients[id]; ok {
			c.enqueue(frame)
		}
	}
}

// AddToGroup implements game.Messenger.
func (h *Hub) AddToGroup(connectionID, groupID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[groupID]
	if !ok {
		members = make(map[string]struct{})
		h.groups[groupID] = members
	}
	members[connectionID] = struct{}{}
}

// RemoveGroup implements game.Messenger.
func (h *Hub) RemoveGroup(groupID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.groups, groupID)
}

// Members lists the connection ids of a group.
func (h *Hub) Members(groupID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.groups[groupID])
}

// Connections reports the number of open sockets.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes every socket. Their handlers then run the normal disconnect path.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		_ = c.conn.Close()
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

// unregister removes c and closes its send buffer, which stops the writer.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	for gid, members := range h.groups {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.groups, gid)
		}
	}
	close(c.send)
}

func encode(evt game.Event) ([]byte, bool) {
	frame, err := json.Marshal(envelope{Event: evt.EventName(), Data: evt})
	if err != nil {
		log.Error().Err(err).Str("event", evt.EventName()).Msg("encode event")
		return nil, false
	}
	return frame, true
}
