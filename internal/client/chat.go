package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/drunksters/gamehub/internal/game"
	"github.com/drunksters/gamehub/internal/server"
)

// ChatSocket maintains one player's connection to their team room. It dials,
// joins, and on connection loss reconnects a bounded number of times,
// re-issuing the join each time because the server forgets room membership
// on disconnect.
type ChatSocket struct {
	url    string
	player string
	team   string

	maxAttempts    int
	reconnectDelay time.Duration

	OnHistory func([]game.ChatMessage)
	OnMessage func(game.ChatMessage)
	OnStatus  func(connected bool)

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewChatSocket derives the websocket URL from the API base URL. Reconnect
// policy mirrors the browser client: 5 attempts, 1s apart.
func NewChatSocket(baseURL, player, team string) *ChatSocket {
	wsURL := strings.TrimSuffix(baseURL, "/")
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)

	return &ChatSocket{
		url:            wsURL + "/ws/chat",
		player:         player,
		team:           team,
		maxAttempts:    5,
		reconnectDelay: time.Second,
	}
}

// Run connects and processes server events until the context ends or the
// reconnect budget is spent.
func (s *ChatSocket) Run(ctx context.Context) error {
	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, _, err := websocket.Dial(ctx, s.url, nil)
		if err != nil {
			failures++
			if failures >= s.maxAttempts {
				return fmt.Errorf("chat connect failed after %d attempts: %w", failures, err)
			}
			s.sleep(ctx)
			continue
		}
		failures = 0

		s.setConn(conn)
		s.status(true)

		_ = s.session(ctx, conn)
		s.setConn(nil)
		s.status(false)
		conn.CloseNow()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.sleep(ctx)
	}
}

// session joins the team room and dispatches events until the read fails.
func (s *ChatSocket) session(ctx context.Context, conn *websocket.Conn) error {
	join := server.ChatEvent{Event: "join-team", Player: s.player, TeamName: s.team}
	if err := wsjson.Write(ctx, conn, join); err != nil {
		return err
	}

	for {
		var ev server.ChatServerEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			return err
		}

		switch ev.Event {
		case "chat-history":
			if s.OnHistory != nil {
				s.OnHistory(ev.Messages)
			}
		case "new-message":
			if s.OnMessage != nil && ev.Message != nil {
				s.OnMessage(*ev.Message)
			}
		case "error":
			// Surfaced events are informational; the connection stays up.
		}
	}
}

// Send posts a message through the current connection.
func (s *ChatSocket) Send(ctx context.Context, message string) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("chat socket is not connected")
	}
	return wsjson.Write(ctx, conn, server.ChatEvent{
		Event:    "send-message",
		Player:   s.player,
		TeamName: s.team,
		Message:  message,
	})
}

func (s *ChatSocket) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

func (s *ChatSocket) status(connected bool) {
	if s.OnStatus != nil {
		s.OnStatus(connected)
	}
}

func (s *ChatSocket) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(s.reconnectDelay):
	}
}
