package game

// Team is one scoring unit. The team name is the map key in State, so it is
// not repeated on the struct, matching the wire shape the frontend expects.
type Team struct {
	Color         string   `json:"color"`
	Members       []string `json:"members"`
	Score         int      `json:"score"`
	Admin         string   `json:"admin"`
	Password      string   `json:"password"`
	AdminPassword string   `json:"adminPassword"`
}

// Quest is a toggleable task. Ids are assigned max+1 within a team's list and
// should be treated as opaque by callers.
type Quest struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Settings is the global game configuration singleton.
type Settings struct {
	QuestPoints    int    `json:"questPoints"`
	MasterPassword string `json:"masterPassword"`
	ChatEnabled    bool   `json:"chatEnabled"`
}

// ChatMessage is one entry in a team's bounded chat history.
type ChatMessage struct {
	ID        int64  `json:"id"`
	Player    string `json:"player"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	TeamName  string `json:"teamName"`
}

// Snapshot is a deep copy of the full state tree, safe to hold and marshal
// after the store lock is released.
type Snapshot struct {
	Teams    map[string]Team    `json:"teams"`
	Quests   map[string][]Quest `json:"quests"`
	Settings Settings           `json:"settings"`
}

// TeamConfig is a team entry in a settings replace document. Scores are not
// part of the document: a replace preserves each surviving team's score.
type TeamConfig struct {
	Color         string   `json:"color" validate:"required"`
	Members       []string `json:"members" validate:"required,min=1,unique,dive,required"`
	Password      string   `json:"password" validate:"required"`
	AdminPassword string   `json:"adminPassword" validate:"required"`
	Admin         string   `json:"admin" validate:"required"`
}

// SettingsDocument is the full configuration applied wholesale by a settings
// replace, and the seed shape applied at process start.
type SettingsDocument struct {
	Teams          map[string]TeamConfig `json:"teams" validate:"required,min=1,dive"`
	QuestPoints    int                   `json:"questPoints" validate:"required,min=1"`
	MasterPassword string                `json:"masterPassword"`
	ChatEnabled    bool                  `json:"chatEnabled"`
}
