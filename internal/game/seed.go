package game

// DefaultSettings is the roster the deployment ships with. It matches the
// frontend's reset-to-default document so a fresh server and a reset client
// agree on the world.
func DefaultSettings() SettingsDocument {
	return SettingsDocument{
		Teams: map[string]TeamConfig{
			"Team Omri": {
				Color:         "#1976d2",
				Members:       []string{"Keniya", "Pita", "Misha", "Roni", "Omri", "Segev"},
				Password:      "teamomri2024",
				AdminPassword: "omriadmin2024",
				Admin:         "Omri",
			},
			"Team Yoad": {
				Color:         "#d32f2f",
				Members:       []string{"Meitav", "Jules", "Tetro", "Idan", "Yoad"},
				Password:      "teamyoad2024",
				AdminPassword: "yoadadmin2024",
				Admin:         "Yoad",
			},
		},
		QuestPoints:    10,
		MasterPassword: "admin2024",
		ChatEnabled:    true,
	}
}

// Seeded returns a store loaded with the default settings and each team's
// starter quests.
func Seeded() (*Store, error) {
	s, err := NewStore(DefaultSettings())
	if err != nil {
		return nil, err
	}
	for team := range s.teams {
		if _, err := s.AddQuest(team, "Secret Quest 1"); err != nil {
			return nil, err
		}
		if _, err := s.AddQuest(team, "Secret Quest 2"); err != nil {
			return nil, err
		}
	}
	return s, nil
}
