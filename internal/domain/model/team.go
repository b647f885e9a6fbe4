package model

// Team is one franchise from the stats feed's team list.
type Team struct {
	ID       string `json:"teamID"`
	City     string `json:"city"`
	Name     string `json:"name,omitempty"`
	FullName string `json:"fullName"`
}

// Game is one scheduled or played game.
type Game struct {
	ID         string `json:"gameID"`
	HomeTeamID string `json:"homeTeamID"`
	AwayTeamID string `json:"awayTeamID"`
}

// IsHome reports whether teamID played this game at home.
func (g Game) IsHome(teamID string) bool {
	return g.HomeTeamID == teamID
}
