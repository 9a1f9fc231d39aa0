// Package sleepertest serves a fixed league over httptest for tests that
// exercise the real Sleeper client.
package sleepertest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/sleeper"
)

// League is the data the fake server answers with.
type League struct {
	ID      string
	Users   []sleeper.User
	Rosters []sleeper.Roster
	Players sleeper.Directory
}

// NewServer starts a server for league and closes it when the test ends.
// Unknown usernames get a null body, like the real API.
func NewServer(t testing.TB, league League) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/user/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/user/")
		for _, u := range league.Users {
			if u.Username == name {
				writeJSON(w, u)
				return
			}
		}
		writeJSON(w, nil)
	})
	mux.HandleFunc("/league/"+league.ID+"/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, league.Users)
	})
	mux.HandleFunc("/league/"+league.ID+"/rosters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, league.Rosters)
	})
	mux.HandleFunc("/players/nfl", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, league.Players)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// SampleLeague has two teams: alice owns A (ADP 10) and C (ADP 8), bob owns
// B (ADP 25) plus a player absent from SampleADP.
func SampleLeague() League {
	return League{
		ID: "L1",
		Users: []sleeper.User{
			{UserID: "u1", Username: "alice", DisplayName: "Alice"},
			{UserID: "u2", Username: "bob", DisplayName: "Bob"},
		},
		Rosters: []sleeper.Roster{
			{RosterID: 1, OwnerID: "u1", Players: []string{"p1", "p2"}},
			{RosterID: 2, OwnerID: "u2", Players: []string{"p3", "p4"}},
		},
		Players: sleeper.Directory{
			"p1": {ID: "p1", FullName: "Player A", Position: "WR", Team: "KC"},
			"p2": {ID: "p2", FullName: "Player C", Position: "RB", Team: "SF"},
			"p3": {ID: "p3", FullName: "Player B", Position: "QB", Team: "BUF"},
			"p4": {ID: "p4", FullName: "Deep Sleeper", Position: "TE"},
		},
	}
}

// SampleADP is the reference CSV matching SampleLeague.
const SampleADP = "Name,ADP\nPlayer A,10\nPlayer C,8\nPlayer B,25\n"

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
