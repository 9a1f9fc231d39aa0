package tradebot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/sleeper-tradebot/internal/adp"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/report"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/sleeper"
	"github.com/rovshanmuradov/sleeper-tradebot/internal/trade"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) UserID(ctx context.Context, username string) (string, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) LeagueUsers(ctx context.Context, leagueID string) (map[string]string, error) {
	args := m.Called(ctx, leagueID)
	users, _ := args.Get(0).(map[string]string)
	return users, args.Error(1)
}

func (m *mockProvider) Rosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error) {
	args := m.Called(ctx, leagueID)
	rosters, _ := args.Get(0).([]sleeper.Roster)
	return rosters, args.Error(1)
}

func (m *mockProvider) Players(ctx context.Context) (sleeper.Directory, error) {
	args := m.Called(ctx)
	dir, _ := args.Get(0).(sleeper.Directory)
	return dir, args.Error(1)
}

func testMatcher(t *testing.T) *adp.Matcher {
	t.Helper()
	m, err := adp.NewMatcher(adp.Table{
		"Player A": 10,
		"Player C": 8,
		"Player B": 25,
	})
	require.NoError(t, err)
	return m
}

func testDirectory() sleeper.Directory {
	return sleeper.Directory{
		"a": {ID: "a", FullName: "Player A", Position: "RB", Team: "DAL"},
		"b": {ID: "b", FullName: "Player B", Position: "WR", Team: "NYJ"},
		"c": {ID: "c", FullName: "Player C", Position: "TE", Team: "KC"},
		"k": {ID: "k", FullName: "Some Kicker", Position: "K", Team: "BAL"},
	}
}

func leagueProvider(rosters []sleeper.Roster) *mockProvider {
	p := &mockProvider{}
	p.On("UserID", mock.Anything, "alice").Return("u1", nil)
	p.On("LeagueUsers", mock.Anything, "L1").Return(map[string]string{"u1": "Alice", "u2": "Bob"}, nil)
	p.On("Rosters", mock.Anything, "L1").Return(rosters, nil)
	p.On("Players", mock.Anything).Return(testDirectory(), nil)
	return p
}

func TestRequest_Validate(t *testing.T) {
	assert.NoError(t, Request{Username: "alice", LeagueID: "L1", MinGain: 5}.Validate())
	assert.Error(t, Request{LeagueID: "L1"}.Validate())
	assert.Error(t, Request{Username: "alice", LeagueID: "  "}.Validate())
}

func TestEngine_Suggest(t *testing.T) {
	provider := leagueProvider([]sleeper.Roster{
		{RosterID: 1, OwnerID: "u1", Players: []string{"a", "c", "k"}},
		{RosterID: 2, OwnerID: "u2", Players: []string{"b"}},
	})
	engine := NewEngine(provider, zaptest.NewLogger(t))

	rep, err := engine.Suggest(context.Background(), testMatcher(t), Request{Username: "alice", LeagueID: "L1", MinGain: 5})
	require.NoError(t, err)
	provider.AssertExpectations(t)

	require.NotNil(t, rep.Mine)
	assert.Equal(t, "u1", rep.Mine.OwnerID)
	assert.Len(t, rep.Teams, 2)
	assert.False(t, rep.NoEligiblePlayers)

	// C->B 17, A->B 15, A+C->B 7.
	require.Len(t, rep.Proposals, 3)
	assert.Equal(t, 17.0, rep.Proposals[0].NetGain)
	assert.Equal(t, 15.0, rep.Proposals[1].NetGain)
	assert.Equal(t, trade.TwoForOne, rep.Proposals[2].Kind)
	assert.Equal(t, 7.0, rep.Proposals[2].NetGain)
	assert.Equal(t, "Bob", rep.Proposals[2].OpponentName)

	// The kicker has no ADP but is still listed.
	assert.False(t, rep.Mine.Players[2].HasADP)
}

func TestEngine_UnknownUserIsFetchError(t *testing.T) {
	provider := &mockProvider{}
	fetchErr := &sleeper.FetchError{Op: "user", Err: sleeper.ErrUserNotFound}
	provider.On("UserID", mock.Anything, "ghost").Return("", fetchErr)

	engine := NewEngine(provider, zaptest.NewLogger(t))
	rep, err := engine.Suggest(context.Background(), testMatcher(t), Request{Username: "ghost", LeagueID: "L1", MinGain: 5})

	assert.Nil(t, rep)
	var target *sleeper.FetchError
	require.True(t, errors.As(err, &target))
	assert.False(t, errors.Is(err, ErrRosterNotFound))

	// Nothing else is fetched after the first failure.
	provider.AssertNotCalled(t, "LeagueUsers", mock.Anything, mock.Anything)
	provider.AssertNotCalled(t, "Players", mock.Anything)
}

func TestEngine_FetchFailureStopsRun(t *testing.T) {
	provider := &mockProvider{}
	provider.On("UserID", mock.Anything, "alice").Return("u1", nil)
	provider.On("LeagueUsers", mock.Anything, "L1").Return(map[string]string{}, nil)
	provider.On("Rosters", mock.Anything, "L1").Return(nil, &sleeper.FetchError{Op: "rosters", StatusCode: 500, Err: errors.New("down")})

	engine := NewEngine(provider, zaptest.NewLogger(t))
	out := engine.Run(context.Background(), testMatcher(t), Request{Username: "alice", LeagueID: "L1", MinGain: 5})

	assert.Equal(t, out.Rosters, out.Trades)
	assert.Contains(t, out.Rosters, "Error: ")
	assert.Contains(t, out.Rosters, "rosters")
	provider.AssertNotCalled(t, "Players", mock.Anything)
}

func TestEngine_RosterNotFound(t *testing.T) {
	provider := leagueProvider([]sleeper.Roster{
		{RosterID: 2, OwnerID: "u2", Players: []string{"b"}},
	})
	engine := NewEngine(provider, zaptest.NewLogger(t))

	rep, err := engine.Suggest(context.Background(), testMatcher(t), Request{Username: "alice", LeagueID: "L1", MinGain: 5})
	assert.ErrorIs(t, err, ErrRosterNotFound)
	require.NotNil(t, rep)
	assert.Nil(t, rep.Mine)
	assert.Len(t, rep.Teams, 1)

	out := engine.Run(context.Background(), testMatcher(t), Request{Username: "alice", LeagueID: "L1", MinGain: 5})
	assert.Contains(t, out.Rosters, "🏈 Team: Bob (u2)")
	assert.Equal(t, report.RosterNotFound, out.Trades)
}

func TestEngine_NoEligiblePlayers(t *testing.T) {
	provider := leagueProvider([]sleeper.Roster{
		{RosterID: 1, OwnerID: "u1", Players: []string{"k"}},
		{RosterID: 2, OwnerID: "u2", Players: []string{"b"}},
	})
	engine := NewEngine(provider, zaptest.NewLogger(t))

	out, rep, err := engine.RunReport(context.Background(), testMatcher(t), Request{Username: "alice", LeagueID: "L1", MinGain: 5})
	require.NoError(t, err)
	assert.True(t, rep.NoEligiblePlayers)
	assert.Empty(t, rep.Proposals)
	assert.Equal(t, report.NoEligible, out.Trades)
	assert.Contains(t, out.Rosters, "Some Kicker (K - BAL) | ADP: N/A")
}

func TestEngine_NoTradesAboveThreshold(t *testing.T) {
	provider := leagueProvider([]sleeper.Roster{
		{RosterID: 1, OwnerID: "u1", Players: []string{"a"}},
		{RosterID: 2, OwnerID: "u2", Players: []string{"b"}},
	})
	engine := NewEngine(provider, zaptest.NewLogger(t))

	out := engine.Run(context.Background(), testMatcher(t), Request{Username: "alice", LeagueID: "L1", MinGain: 20})
	assert.Equal(t, report.NoTrades, out.Trades)
}

func TestEngine_InvalidRequest(t *testing.T) {
	provider := &mockProvider{}
	engine := NewEngine(provider, zaptest.NewLogger(t))

	out := engine.Run(context.Background(), testMatcher(t), Request{LeagueID: "L1"})
	assert.Equal(t, "Error: username is required", out.Trades)
	provider.AssertNotCalled(t, "UserID", mock.Anything, mock.Anything)
}
