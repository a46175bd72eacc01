package server

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"maneuver-server/internal/network"
	"maneuver-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // сохраняемые сцены бывают крупнее формы
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и Router.
// Сообщения одного клиента обрабатываются строго по очереди.
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan any
	router   *Router
	session  *Session
	done     chan struct{}
	registry *network.Registry
}

func NewClient(ctx context.Context, id string, conn *websocket.Conn, router *Router, rng *rand.Rand) *Client {
	return &Client{
		ID:     id,
		Conn:   conn,
		Send:   make(chan any, sendBuffer),
		router: router,
		session: &Session{
			ID:  id,
			Ctx: ctx,
			Rng: rng,
		},
		done: make(chan struct{}),
	}
}

// readPump читает сообщения и синхронно вызывает хендлеры
func (c *Client) readPump() {
	log := logger.Component("ws").WithField("conn_id", c.ID)
	defer func() {
		if c.registry != nil {
			c.registry.Unregister(c.ID)
		}
		close(c.Send)
		if err := c.Conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close websocket connection")
		}
		log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Errorf("WS Error: %v", err)
			}
			return
		}
		// Любое сообщение продлевает жизнь соединения, не только pong
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.WithError(err).Warn("failed to set read deadline")
		}

		resp, ok := c.router.Dispatch(c.session, msg)
		if !ok {
			continue
		}

		select {
		case c.Send <- resp:
		case <-c.done:
			// writePump умер, отвечать некому
			return
		}
	}
}

// writePump отправляет ответы клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	log := logger.Component("ws").WithField("conn_id", c.ID)
	defer func() {
		ticker.Stop()
		close(c.done)
		if err := c.Conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				log.WithFields(logrus.Fields{"error": err}).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
