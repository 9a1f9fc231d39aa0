package sleeper

import "strings"

// Player is one entry of the /players/nfl directory.
type Player struct {
	ID        string `json:"player_id"`
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Team      string `json:"team"`
}

// DisplayName returns the full name. Team defenses carry no full_name, so
// first and last name are joined instead.
func (p Player) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Directory maps a Sleeper player id to its directory entry.
type Directory map[string]Player

// Roster is one league member's roster.
type Roster struct {
	RosterID int      `json:"roster_id"`
	OwnerID  string   `json:"owner_id"`
	Players  []string `json:"players"`
}

// User is a Sleeper account as returned by /user/<username> and
// /league/<id>/users.
type User struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}
