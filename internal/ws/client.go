package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/robalobadob/wordduel/apps/go-server/internal/orchestrator"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1024
)

type client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

// enqueue queues frame without blocking. Callers hold the hub read lock,
// so send cannot be closed underneath them.
func (c *client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		log.Warn().Str("conn", c.id).Msg("send buffer full, dropping event")
	}
}

// readPump decodes frames until the socket fails.
func (c *client) readPump(handler CommandHandler) {
	pongWait := c.hub.opts.PingInterval * 2
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("conn", c.id).Msg("read")
			}
			return
		}
		if !c.limiter.Allow() {
			log.Warn().Str("conn", c.id).Msg("rate limited, dropping frame")
			continue
		}
		cmd, err := decodeCommand(c.hub.validate, data)
		if err != nil {
			log.Debug().Err(err).Str("conn", c.id).Msg("bad frame")
			continue
		}
		c.dispatch(handler, cmd)
	}
}

func (c *client) dispatch(handler CommandHandler, cmd command) {
	var err error
	switch cmd.Type {
	case cmdRegisterName:
		err = handler.RegisterName(c.id, cmd.Name)
	case cmdGuess:
		ctx, cancel := context.WithTimeout(context.Background(), c.hub.opts.CommandTimeout)
		err = handler.Guess(ctx, c.id, cmd.Guess)
		cancel()
	case cmdRematch:
		err = handler.RematchVote(c.id)
	}
	switch {
	case err == nil:
	case orchestrator.IsNoop(err):
		log.Debug().Err(err).Str("conn", c.id).Str("cmd", cmd.Type).Msg("command ignored")
	default:
		log.Warn().Err(err).Str("conn", c.id).Str("cmd", cmd.Type).Msg("command failed")
	}
}

// writePump drains send and keeps the socket alive with pings.
func (c *client) writePump(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Debug().Err(err).Str("conn", c.id).Msg("write")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
