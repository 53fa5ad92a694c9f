package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/drunksters/gamehub/internal/game"
)

// ChatEvent is a client-to-server websocket frame. Event is "join-team" or
// "send-message"; the other fields apply per event.
type ChatEvent struct {
	Event    string `json:"event"`
	Player   string `json:"player,omitempty"`
	TeamName string `json:"teamName,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ChatServerEvent is a server-to-client frame: "chat-history" with Messages
// on join, "new-message" with Message on broadcast, or "error".
type ChatServerEvent struct {
	Event    string             `json:"event"`
	Messages []game.ChatMessage `json:"messages,omitempty"`
	Message  *game.ChatMessage  `json:"message,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// ChatRelay serializes append-then-broadcast so room delivery order always
// equals store append order, and joins see a history consistent with the
// broadcasts that follow.
type ChatRelay struct {
	mu  sync.Mutex
	st  *game.Store
	hub *Hub
}

func NewChatRelay(st *game.Store, hub *Hub) *ChatRelay {
	return &ChatRelay{st: st, hub: hub}
}

// Post appends one message and broadcasts it to the team room, including the
// sender if joined.
func (c *ChatRelay) Post(teamName, player, message string) (game.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.st.Settings().ChatEnabled {
		return game.ChatMessage{}, fmt.Errorf("chat is disabled: %w", game.ErrInvalidInput)
	}
	msg, err := c.st.AppendChat(teamName, player, message)
	if err != nil {
		return game.ChatMessage{}, err
	}
	c.hub.Publish(teamName, ChatServerEvent{Event: "new-message", Message: &msg})
	return msg, nil
}

// JoinRoom subscribes the outbound channel to the team room and returns the
// retained history. Done under the relay lock so no message can land between
// the history read and the subscription.
func (c *ChatRelay) JoinRoom(teamName string, out chan<- []byte) (*Subscription, []game.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.st.Settings().ChatEnabled {
		return nil, nil, fmt.Errorf("chat is disabled: %w", game.ErrInvalidInput)
	}
	history, err := c.st.ChatHistory(teamName)
	if err != nil {
		return nil, nil, err
	}
	return c.hub.Join(teamName, out), history, nil
}

func handleChatSocket(logger *slog.Logger, relay *ChatRelay) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()

		// All writes funnel through one goroutine; the hub and the read loop
		// both push frames into out.
		out := make(chan []byte, 32)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case data := <-out:
					if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
						logger.Debug("websocket write failed", "error", err)
						return
					}
				}
			}
		}()

		var sub *Subscription
		defer func() {
			if sub != nil {
				sub.Close()
			}
		}()

		for {
			var ev ChatEvent
			if err := wsjson.Read(ctx, conn, &ev); err != nil {
				logger.Debug("websocket read ended", "error", err)
				return
			}

			switch ev.Event {
			case "join-team":
				newSub, history, err := relay.JoinRoom(ev.TeamName, out)
				if err != nil {
					pushEvent(out, ChatServerEvent{Event: "error", Error: err.Error()})
					continue
				}
				if sub != nil {
					sub.Close()
				}
				sub = newSub
				if history == nil {
					history = []game.ChatMessage{}
				}
				pushEvent(out, ChatServerEvent{Event: "chat-history", Messages: history})
				logger.Info("chat join", "team", ev.TeamName, "player", ev.Player)

			case "send-message":
				if _, err := relay.Post(ev.TeamName, ev.Player, ev.Message); err != nil {
					pushEvent(out, ChatServerEvent{Event: "error", Error: err.Error()})
				}

			default:
				pushEvent(out, ChatServerEvent{Event: "error", Error: "unknown event"})
			}
		}
	}
}

// pushEvent queues a frame for the connection's writer, dropping when the
// connection cannot keep up, same as room broadcasts.
func pushEvent(out chan<- []byte, ev ChatServerEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case out <- data:
	default:
	}
}

// handleChatHistory is the REST mirror of the join replay.
func handleChatHistory(st *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamName := pathParam(r, "teamName")

		history, err := st.ChatHistory(teamName)
		if err != nil {
			writeGameError(w, err)
			return
		}
		if history == nil {
			history = []game.ChatMessage{}
		}
		writeJSON(w, http.StatusOK, history)
	}
}

// ChatPostRequest is the REST send body.
type ChatPostRequest struct {
	Player  string `json:"player"`
	Message string `json:"message"`
}

// handleChatPost appends and broadcasts through the same relay as the
// websocket path, so REST-posted messages reach connected room members.
func handleChatPost(relay *ChatRelay) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamName := pathParam(r, "teamName")

		var req ChatPostRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		msg, err := relay.Post(teamName, req.Player, req.Message)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// pathParam returns a chi URL parameter with percent-escapes resolved; team
// names contain spaces.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
