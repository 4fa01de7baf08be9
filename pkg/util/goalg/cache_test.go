package goalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCacheTest(t *testing.T) {
	t.Helper()
	require.NoError(t, InitDatabase(":memory:"))
	t.Cleanup(func() {
		CloseDatabase()
	})
}

func TestCacheRoundTrip(t *testing.T) {
	setupCacheTest(t)

	teams := []TeamSeasonStats{
		{TeamName: "Arsenal", MatchesPlayed: 10, GoalsScored: 20, GoalsConceded: 10, XG: 18.2, XGA: 12.6},
		{TeamName: "Chelsea", MatchesPlayed: 10, GoalsScored: 14, GoalsConceded: 13, XG: 15.0, XGA: 14.0},
	}
	require.NoError(t, WriteCachedTeams(9, 2025, teams))

	cached, ok := ReadCachedTeams(9, 2025)
	require.True(t, ok)
	require.Len(t, cached, 2)

	// Rows come back ordered by team name
	assert.Equal(t, "Arsenal", cached[0].TeamName)
	assert.Equal(t, "Chelsea", cached[1].TeamName)
	assert.Equal(t, 18.2, cached[0].XG)
	assert.Equal(t, 12.6, cached[0].XGA)
	assert.Equal(t, 10, cached[0].MatchesPlayed)
	assert.Equal(t, 20, cached[0].GoalsScored)
	assert.Equal(t, 10, cached[0].GoalsConceded)
}

func TestCacheMissForUnknownLeague(t *testing.T) {
	setupCacheTest(t)

	_, ok := ReadCachedTeams(12, 2025)
	assert.False(t, ok)
}

func TestCacheMissForOtherSeason(t *testing.T) {
	setupCacheTest(t)

	teams := []TeamSeasonStats{{TeamName: "Arsenal", MatchesPlayed: 10, XG: 18.2, XGA: 12.6}}
	require.NoError(t, WriteCachedTeams(9, 2024, teams))

	_, ok := ReadCachedTeams(9, 2025)
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	setupCacheTest(t)

	teams := []TeamSeasonStats{{TeamName: "Arsenal", MatchesPlayed: 10, XG: 18.2, XGA: 12.6}}
	require.NoError(t, WriteCachedTeams(9, 2025, teams))

	// A negative TTL puts the cutoff in the future, so every row is stale
	saved := Config.CacheTTLHours
	Config.CacheTTLHours = -1
	defer func() { Config.CacheTTLHours = saved }()

	_, ok := ReadCachedTeams(9, 2025)
	assert.False(t, ok)
}

func TestCacheWriteReplacesSnapshot(t *testing.T) {
	setupCacheTest(t)

	first := []TeamSeasonStats{
		{TeamName: "Arsenal", MatchesPlayed: 9, XG: 16.0, XGA: 11.0},
		{TeamName: "Burnley", MatchesPlayed: 9, XG: 8.0, XGA: 17.0},
	}
	require.NoError(t, WriteCachedTeams(9, 2025, first))

	// Burnley gone in the refreshed snapshot, Arsenal updated
	second := []TeamSeasonStats{
		{TeamName: "Arsenal", MatchesPlayed: 10, XG: 18.2, XGA: 12.6},
	}
	require.NoError(t, WriteCachedTeams(9, 2025, second))

	cached, ok := ReadCachedTeams(9, 2025)
	require.True(t, ok)
	require.Len(t, cached, 1)
	assert.Equal(t, "Arsenal", cached[0].TeamName)
	assert.Equal(t, 10, cached[0].MatchesPlayed)
}

func TestClearCache(t *testing.T) {
	setupCacheTest(t)

	teams := []TeamSeasonStats{{TeamName: "Arsenal", MatchesPlayed: 10, XG: 18.2, XGA: 12.6}}
	require.NoError(t, WriteCachedTeams(9, 2025, teams))
	require.NoError(t, WriteCachedTeams(11, 2025, teams))

	require.NoError(t, ClearCache())

	_, ok := ReadCachedTeams(9, 2025)
	assert.False(t, ok)
	_, ok = ReadCachedTeams(11, 2025)
	assert.False(t, ok)
}
