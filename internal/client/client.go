// Package client is the Go counterpart of the browser's data layer: typed
// REST calls, a polling watcher that stands in for server-push state sync,
// and a reconnecting chat socket.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/drunksters/gamehub/internal/game"
	"github.com/drunksters/gamehub/internal/server"
)

// APIError is a non-2xx response, carrying the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Credentials identify the caller on mutating calls. Password is the shared
// secret (team, admin, or master); Player is the caller name, which the
// legacy identity mode authorizes on.
type Credentials struct {
	Player   string
	Password string
}

type Client struct {
	baseURL string
	hc      *http.Client
	// onMutate is poked after every successful mutation so the watcher can
	// refetch immediately instead of waiting for the next tick.
	onMutate func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) State(ctx context.Context) (server.StateResponse, error) {
	return doRequest[server.StateResponse](ctx, c, http.MethodGet, "/state", nil)
}

func (c *Client) Settings(ctx context.Context) (server.SettingsResponse, error) {
	return doRequest[server.SettingsResponse](ctx, c, http.MethodGet, "/settings", nil)
}

func (c *Client) Health(ctx context.Context) (server.HealthResponse, error) {
	return doRequest[server.HealthResponse](ctx, c, http.MethodGet, "/api/health", nil)
}

func (c *Client) UpdateScore(ctx context.Context, teamName string, delta int, creds Credentials) (server.ScoreResponse, error) {
	resp, err := doRequest[server.ScoreResponse](ctx, c, http.MethodPost, "/score", server.ScoreRequest{
		TeamName:      teamName,
		Delta:         delta,
		Admin:         creds.Player,
		AdminPassword: creds.Password,
	})
	c.mutated(err)
	return resp, err
}

func (c *Client) ToggleQuest(ctx context.Context, teamName string, questID int, creds Credentials) (server.QuestResponse, error) {
	resp, err := doRequest[server.QuestResponse](ctx, c, http.MethodPost, "/quest", server.QuestRequest{
		TeamName:      teamName,
		QuestID:       questID,
		Admin:         creds.Player,
		AdminPassword: creds.Password,
	})
	c.mutated(err)
	return resp, err
}

func (c *Client) AddQuest(ctx context.Context, teamName, text string, creds Credentials) (server.QuestResponse, error) {
	resp, err := doRequest[server.QuestResponse](ctx, c, http.MethodPut, "/quest", server.QuestRequest{
		TeamName:      teamName,
		Text:          text,
		Admin:         creds.Player,
		AdminPassword: creds.Password,
	})
	c.mutated(err)
	return resp, err
}

func (c *Client) EditQuestText(ctx context.Context, teamName string, questID int, text string, creds Credentials) (server.QuestResponse, error) {
	resp, err := doRequest[server.QuestResponse](ctx, c, http.MethodPatch, "/quest", server.QuestRequest{
		TeamName:      teamName,
		QuestID:       questID,
		Text:          text,
		Admin:         creds.Player,
		AdminPassword: creds.Password,
	})
	c.mutated(err)
	return resp, err
}

func (c *Client) DeleteQuest(ctx context.Context, teamName string, questID int, creds Credentials) (server.QuestResponse, error) {
	resp, err := doRequest[server.QuestResponse](ctx, c, http.MethodDelete, "/quest", server.QuestRequest{
		TeamName:      teamName,
		QuestID:       questID,
		Admin:         creds.Player,
		AdminPassword: creds.Password,
	})
	c.mutated(err)
	return resp, err
}

func (c *Client) Reset(ctx context.Context) (server.AckResponse, error) {
	resp, err := doRequest[server.AckResponse](ctx, c, http.MethodPost, "/reset", struct{}{})
	c.mutated(err)
	return resp, err
}

func (c *Client) ReplaceSettings(ctx context.Context, doc game.SettingsDocument, creds Credentials) (server.AckResponse, error) {
	resp, err := doRequest[server.AckResponse](ctx, c, http.MethodPost, "/settings", server.ReplaceSettingsRequest{
		Settings:      doc,
		Admin:         creds.Player,
		AdminPassword: creds.Password,
	})
	c.mutated(err)
	return resp, err
}

func (c *Client) ChatHistory(ctx context.Context, teamName string) ([]game.ChatMessage, error) {
	return doRequest[[]game.ChatMessage](ctx, c, http.MethodGet, "/chat/"+url.PathEscape(teamName), nil)
}

func (c *Client) PostChat(ctx context.Context, teamName, player, message string) (game.ChatMessage, error) {
	return doRequest[game.ChatMessage](ctx, c, http.MethodPost, "/chat/"+url.PathEscape(teamName), server.ChatPostRequest{
		Player:  player,
		Message: message,
	})
}

func (c *Client) mutated(err error) {
	if err == nil && c.onMutate != nil {
		c.onMutate()
	}
}

func doRequest[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return zero, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return zero, &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}
