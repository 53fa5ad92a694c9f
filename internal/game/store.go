package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)

// maxChatHistory is the hard retention bound per team room: after every
// append the history is truncated to the most recent 50 entries.
const maxChatHistory = 50

// Store owns the entire mutable game state. Every read and mutation happens
// under one mutex, reproducing the serialized single-writer model of the
// original deployment on a multi-goroutine HTTP server. There is no
// cross-request transaction: a read-modify-write spanning two calls can still
// lose updates, and that stays out of scope.
type Store struct {
	mu         sync.Mutex
	teams      map[string]*Team
	quests     map[string][]Quest
	chat       map[string][]ChatMessage
	settings   Settings
	lastChatID int64

	now func() time.Time
}

// NewStore builds a store from a settings document, with zero scores and
// empty quest and chat lists for every team.
func NewStore(doc SettingsDocument) (*Store, error) {
	s := &Store{
		teams:  make(map[string]*Team),
		quests: make(map[string][]Quest),
		chat:   make(map[string][]ChatMessage),
		now:    time.Now,
	}
	if err := s.ReplaceSettings(doc); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot returns a deep copy of the full state tree.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Teams:    make(map[string]Team, len(s.teams)),
		Quests:   make(map[string][]Quest, len(s.quests)),
		Settings: s.settings,
	}
	for name, t := range s.teams {
		ct := *t
		ct.Members = append([]string(nil), t.Members...)
		snap.Teams[name] = ct
	}
	for name, qs := range s.quests {
		snap.Quests[name] = append([]Quest(nil), qs...)
	}
	return snap
}

// Settings returns a copy of the global settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateScore applies a signed delta to the team score. Scores are unbounded
// in both directions.
func (s *Store) UpdateScore(teamName string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[teamName]
	if !ok {
		return 0, fmt.Errorf("team %q: %w", teamName, ErrNotFound)
	}
	t.Score += delta
	return t.Score, nil
}

// ToggleQuest flips the quest's completed flag and moves the team score by
// questPoints in the matching direction. Completion is the only quest event
// that awards or deducts points, exactly once per toggle.
func (s *Store) ToggleQuest(teamName string, questID int) (Quest, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[teamName]
	if !ok {
		return Quest{}, 0, fmt.Errorf("team %q: %w", teamName, ErrNotFound)
	}
	qs := s.quests[teamName]
	for i := range qs {
		if qs[i].ID != questID {
			continue
		}
		qs[i].Completed = !qs[i].Completed
		if qs[i].Completed {
			t.Score += s.settings.QuestPoints
		} else {
			t.Score -= s.settings.QuestPoints
		}
		return qs[i], t.Score, nil
	}
	return Quest{}, 0, fmt.Errorf("quest %d: %w", questID, ErrNotFound)
}

// AddQuest appends a quest with id max(existing)+1, or 1 for an empty list.
// Deleting the highest-id quest lets the next add reuse its id; that quirk is
// kept from the original.
func (s *Store) AddQuest(teamName, text string) (Quest, error) {
	text = normalizeText(text)
	if text == "" {
		return Quest{}, fmt.Errorf("quest text: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[teamName]; !ok {
		return Quest{}, fmt.Errorf("team %q: %w", teamName, ErrNotFound)
	}
	nextID := 1
	for _, q := range s.quests[teamName] {
		if q.ID >= nextID {
			nextID = q.ID + 1
		}
	}
	q := Quest{ID: nextID, Text: text}
	s.quests[teamName] = append(s.quests[teamName], q)
	return q, nil
}

// EditQuestText replaces the quest text, leaving completion and score alone.
func (s *Store) EditQuestText(teamName string, questID int, text string) (Quest, error) {
	text = normalizeText(text)
	if text == "" {
		return Quest{}, fmt.Errorf("quest text: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[teamName]; !ok {
		return Quest{}, fmt.Errorf("team %q: %w", teamName, ErrNotFound)
	}
	qs := s.quests[teamName]
	for i := range qs {
		if qs[i].ID == questID {
			qs[i].Text = text
			return qs[i], nil
		}
	}
	return Quest{}, fmt.Errorf("quest %d: %w", questID, ErrNotFound)
}

// DeleteQuest removes the quest. A completed quest refunds its points first.
func (s *Store) DeleteQuest(teamName string, questID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[teamName]
	if !ok {
		return fmt.Errorf("team %q: %w", teamName, ErrNotFound)
	}
	qs := s.quests[teamName]
	for i := range qs {
		if qs[i].ID != questID {
			continue
		}
		if qs[i].Completed {
			t.Score -= s.settings.QuestPoints
		}
		s.quests[teamName] = append(qs[:i], qs[i+1:]...)
		return nil
	}
	return fmt.Errorf("quest %d: %w", questID, ErrNotFound)
}

// Reset zeroes every team score and clears every completed flag. Points are
// deliberately not refunded first: this is a hard reset, both halves applied
// under the same lock.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.teams {
		t.Score = 0
	}
	for name, qs := range s.quests {
		for i := range qs {
			qs[i].Completed = false
		}
		s.quests[name] = qs
	}
}

// ReplaceSettings applies a full settings document. The merge is
// all-or-nothing: the document is checked completely before any state is
// touched. Surviving teams keep their current score; new teams start at zero
// with empty quest and chat lists; teams absent from the document are dropped.
func (s *Store) ReplaceSettings(doc SettingsDocument) error {
	if doc.QuestPoints < 1 {
		return fmt.Errorf("questPoints must be at least 1: %w", ErrInvalidInput)
	}
	for name, tc := range doc.Teams {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty team name: %w", ErrInvalidInput)
		}
		if !contains(tc.Members, tc.Admin) {
			return fmt.Errorf("team %q: admin %q is not a member: %w", name, tc.Admin, ErrInvalidInput)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	teams := make(map[string]*Team, len(doc.Teams))
	quests := make(map[string][]Quest, len(doc.Teams))
	chat := make(map[string][]ChatMessage, len(doc.Teams))
	for name, tc := range doc.Teams {
		score := 0
		if old, ok := s.teams[name]; ok {
			score = old.Score
		}
		teams[name] = &Team{
			Color:         tc.Color,
			Members:       append([]string(nil), tc.Members...),
			Score:         score,
			Admin:         tc.Admin,
			Password:      tc.Password,
			AdminPassword: tc.AdminPassword,
		}
		if old, ok := s.quests[name]; ok {
			quests[name] = old
		} else {
			quests[name] = []Quest{}
		}
		if old, ok := s.chat[name]; ok {
			chat[name] = old
		} else {
			chat[name] = []ChatMessage{}
		}
	}

	s.teams = teams
	s.quests = quests
	s.chat = chat
	s.settings = Settings{
		QuestPoints:    doc.QuestPoints,
		MasterPassword: doc.MasterPassword,
		ChatEnabled:    doc.ChatEnabled,
	}
	return nil
}

// AppendChat appends a message to the team's history and truncates it to the
// retention bound. Ids are time-derived (unix milliseconds) and strictly
// monotonic within the store.
func (s *Store) AppendChat(teamName, player, message string) (ChatMessage, error) {
	player = normalizeText(player)
	message = normalizeText(message)
	if player == "" || message == "" {
		return ChatMessage{}, fmt.Errorf("player and message are required: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[teamName]; !ok {
		return ChatMessage{}, fmt.Errorf("team %q: %w", teamName, ErrNotFound)
	}

	now := s.now().UTC()
	id := now.UnixMilli()
	if id <= s.lastChatID {
		id = s.lastChatID + 1
	}
	s.lastChatID = id

	msg := ChatMessage{
		ID:        id,
		Player:    player,
		Message:   message,
		Timestamp: now.Format(time.RFC3339Nano),
		TeamName:  teamName,
	}
	history := append(s.chat[teamName], msg)
	if len(history) > maxChatHistory {
		history = history[len(history)-maxChatHistory:]
	}
	s.chat[teamName] = history
	return msg, nil
}

// ChatHistory returns a copy of the team's retained messages in append order.
func (s *Store) ChatHistory(teamName string) ([]ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[teamName]; !ok {
		return nil, fmt.Errorf("team %q: %w", teamName, ErrNotFound)
	}
	return append([]ChatMessage(nil), s.chat[teamName]...), nil
}

// AuthView returns the credentials a Verifier needs for one team.
func (s *Store) AuthView(teamName string) (AuthView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[teamName]
	if !ok {
		return AuthView{}, fmt.Errorf("team %q: %w", teamName, ErrNotFound)
	}
	return AuthView{
		TeamPassword:   t.Password,
		AdminPassword:  t.AdminPassword,
		Admin:          t.Admin,
		MasterPassword: s.settings.MasterPassword,
	}, nil
}

// IsGlobalAdmin reports whether the caller authorizes as admin for any team.
// Settings replace is gated on this rather than on one team's credentials.
func (s *Store) IsGlobalAdmin(v Verifier, credential, caller string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.teams {
		view := AuthView{
			TeamPassword:   t.Password,
			AdminPassword:  t.AdminPassword,
			Admin:          t.Admin,
			MasterPassword: s.settings.MasterPassword,
		}
		if v.Verify(view, credential, caller) >= RoleAdmin {
			return true
		}
	}
	return false
}

// SetClock overrides the store's time source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// normalizeText trims whitespace and applies NFC so that visually identical
// input from different keyboards compares and renders consistently.
func normalizeText(v string) string {
	return norm.NFC.String(strings.TrimSpace(v))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
