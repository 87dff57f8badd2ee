package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"lingo-quiz-service/internal/app"
	"lingo-quiz-service/internal/domain"
)

type WSHandler struct {
	manager  *app.SessionManager
	limiter  app.RateLimiter
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler wires the websocket surface. limiter may be nil to disable
// quiz start throttling.
func NewWSHandler(manager *app.SessionManager, limiter app.RateLimiter, log *slog.Logger) *WSHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WSHandler{
		manager: manager,
		limiter: limiter,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Mode           domain.Mode `json:"mode"`
	Difficulty     string      `json:"difficulty"`
	Language       string      `json:"language"`
	TimeoutSeconds int         `json:"timeoutSeconds"`
}

type answerPayload struct {
	SessionID string `json:"sessionId"`
	Option    int    `json:"option"`
}

type watchPayload struct {
	SessionID string `json:"sessionId"`
}

type leaderboardPayload struct {
	SortBy string `json:"sortBy"`
	Limit  int    `json:"limit"`
}

type welcomePayload struct {
	Stats     domain.UserStats  `json:"stats"`
	Languages []domain.Language `json:"languages"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// connection is the per-socket state. Every write goes through send, which
// only the writer goroutine drains.
type connection struct {
	h      *WSHandler
	ctx    context.Context
	userID string
	name   string

	send         chan outboundMessage[any]
	closeSignals chan struct{}
	forwarders   sync.WaitGroup

	mu      sync.Mutex
	watches map[string]func()
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	name := r.URL.Query().Get("name")
	if userID == "" || name == "" {
		http.Error(w, "missing userId or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	stats, err := h.manager.RegisterUser(r.Context(), userID, name)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: newErrorPayload(err)})
		return
	}

	c := &connection{
		h:            h,
		ctx:          r.Context(),
		userID:       userID,
		name:         name,
		send:         make(chan outboundMessage[any], 16),
		closeSignals: make(chan struct{}),
		watches:      make(map[string]func()),
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range c.send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", "user_id", userID, "error", err)
				// drain after a failed write; the closed conn ends the read loop
				_ = conn.Close()
				for range c.send {
				}
				return
			}
		}
	}()

	c.send <- outboundMessage[any]{Type: "welcome", Payload: welcomePayload{
		Stats:     stats,
		Languages: domain.SupportedLanguages(),
	}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		c.handle(inbound)
	}

	close(c.closeSignals)
	c.unwatchAll()
	c.forwarders.Wait()
	close(c.send)
	<-writerDone
}

func (c *connection) reply(typ string, payload any) {
	c.send <- outboundMessage[any]{Type: typ, Payload: payload}
}

func (c *connection) fail(err error) {
	c.reply("error", newErrorPayload(err))
}

func (c *connection) decode(raw json.RawMessage, dst any) bool {
	if len(raw) == 0 {
		return true
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.fail(fmt.Errorf("%w: invalid payload", domain.ErrValidation))
		return false
	}
	return true
}

func (c *connection) handle(inbound inboundMessage) {
	switch inbound.Type {
	case "start":
		var payload startPayload
		if !c.decode(inbound.Payload, &payload) {
			return
		}
		c.start(payload)
	case "answer":
		var payload answerPayload
		if !c.decode(inbound.Payload, &payload) {
			return
		}
		outcome, err := c.h.manager.SubmitAnswer(c.ctx, payload.SessionID, c.userID, payload.Option)
		if err != nil {
			c.fail(err)
			return
		}
		c.reply("answerResult", outcome)
	case "watch":
		var payload watchPayload
		if !c.decode(inbound.Payload, &payload) {
			return
		}
		if err := c.watch(payload.SessionID); err != nil {
			c.fail(err)
		}
	case "profile":
		profile, err := c.h.manager.Profile(c.ctx, c.userID, c.name)
		if err != nil {
			c.fail(err)
			return
		}
		c.reply("profile", profile)
	case "leaderboard":
		var payload leaderboardPayload
		if !c.decode(inbound.Payload, &payload) {
			return
		}
		entries, err := c.h.manager.Leaderboard(c.ctx, domain.ParseSortKey(payload.SortBy), payload.Limit)
		if err != nil {
			c.fail(err)
			return
		}
		c.reply("leaderboard", entries)
	default:
		c.fail(fmt.Errorf("%w: unsupported message type %q", domain.ErrValidation, inbound.Type))
	}
}

func (c *connection) start(payload startPayload) {
	if c.h.limiter != nil {
		ok, err := c.h.limiter.Allow(c.ctx, "quiz:"+c.userID)
		if err != nil {
			// limiter outages should not block play
			c.h.log.Warn("rate limiter failed", "user_id", c.userID, "error", err)
		} else if !ok {
			c.fail(domain.ErrRateLimited)
			return
		}
	}

	handle, err := c.h.manager.Start(c.ctx, app.StartRequest{
		Mode:       payload.Mode,
		Difficulty: payload.Difficulty,
		Language:   payload.Language,
		Timeout:    time.Duration(payload.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		c.fail(err)
		return
	}
	c.reply("session", handle)
	if err := c.watch(handle.SessionID); err != nil {
		c.h.log.Debug("watch new session", "session_id", handle.SessionID, "error", err)
	}
}

func (c *connection) watch(sessionID string) error {
	c.mu.Lock()
	if _, ok := c.watches[sessionID]; ok {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	events, cancel, err := c.h.manager.Watch(sessionID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.watches[sessionID] = cancel
	c.mu.Unlock()

	c.forwarders.Add(1)
	go func() {
		defer c.forwarders.Done()
		defer c.unwatch(sessionID)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case c.send <- outboundMessage[any]{Type: "sessionEvent", Payload: ev}:
				case <-c.closeSignals:
					return
				}
			case <-c.closeSignals:
				return
			}
		}
	}()
	return nil
}

func (c *connection) unwatch(sessionID string) {
	c.mu.Lock()
	cancel, ok := c.watches[sessionID]
	delete(c.watches, sessionID)
	c.mu.Unlock()
	if ok {
		cancel()
	}
}

func (c *connection) unwatchAll() {
	c.mu.Lock()
	cancels := make([]func(), 0, len(c.watches))
	for id, cancel := range c.watches {
		cancels = append(cancels, cancel)
		delete(c.watches, id)
	}
	c.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}
