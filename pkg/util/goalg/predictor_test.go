package goalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A small but realistic snapshot, strengths spread around league average
func snapshotForTests() []TeamSeasonStats {
	return []TeamSeasonStats{
		{TeamName: "Manchester City", MatchesPlayed: 10, GoalsScored: 25, GoalsConceded: 8, XG: 22.0, XGA: 9.0},
		{TeamName: "Manchester United", MatchesPlayed: 10, GoalsScored: 15, GoalsConceded: 14, XG: 14.0, XGA: 15.0},
		{TeamName: "Arsenal", MatchesPlayed: 10, GoalsScored: 20, GoalsConceded: 10, XG: 18.2, XGA: 12.6},
		{TeamName: "Luton", MatchesPlayed: 10, GoalsScored: 7, GoalsConceded: 22, XG: 8.0, XGA: 21.0},
	}
}

func TestFindTeamExactMatch(t *testing.T) {
	teams := snapshotForTests()

	team, err := FindTeam("Arsenal", teams)
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", team.TeamName)

	team, err = FindTeam("arsenal", teams)
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", team.TeamName)
}

func TestFindTeamExactBeatsSubstring(t *testing.T) {
	teams := []TeamSeasonStats{
		{TeamName: "Manchester United FC", MatchesPlayed: 1},
		{TeamName: "Manchester United", MatchesPlayed: 1},
	}

	team, err := FindTeam("manchester united", teams)
	require.NoError(t, err)
	assert.Equal(t, "Manchester United", team.TeamName)
}

func TestFindTeamSubstringBothDirections(t *testing.T) {
	teams := snapshotForTests()

	// query inside the stored name
	team, err := FindTeam("City", teams)
	require.NoError(t, err)
	assert.Equal(t, "Manchester City", team.TeamName)

	// stored name inside the query
	team, err = FindTeam("Luton Town", teams)
	require.NoError(t, err)
	assert.Equal(t, "Luton", team.TeamName)
}

func TestFindTeamNotFound(t *testing.T) {
	teams := snapshotForTests()

	_, err := FindTeam("Real Madrid", teams)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	_, err = FindTeam("   ", teams)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestPredictFixture(t *testing.T) {
	teams := snapshotForTests()

	result, err := PredictFixture("man city", "luton", teams)
	require.NoError(t, err)

	// Canonical names from the snapshot, not the caller's spelling
	assert.Equal(t, "Manchester City", result.HomeTeam)
	assert.Equal(t, "Luton", result.AwayTeam)

	// City at home to Luton should be heavy favourites
	assert.Greater(t, result.HomeWin, result.AwayWin)
	assert.Greater(t, result.HomeWin, result.Draw)
	assert.Greater(t, result.ExpectedHomeGoals, result.ExpectedAwayGoals)

	// Probabilities partition the covered matrix mass
	mass := result.Matrix.TotalMass()
	assert.InDelta(t, mass, result.HomeWin+result.Draw+result.AwayWin, 1e-9)
	assert.InDelta(t, mass, result.Over2p5+result.Under2p5, 1e-9)
	assert.InDelta(t, mass, result.BttsYes+result.BttsNo, 1e-9)

	require.Len(t, result.TopScores, Config.TopScoreCount)
}

func TestPredictFixtureReverseFixtureFavoursVenue(t *testing.T) {
	teams := snapshotForTests()

	cityHome, err := PredictFixture("Manchester City", "Arsenal", teams)
	require.NoError(t, err)
	arsenalHome, err := PredictFixture("Arsenal", "Manchester City", teams)
	require.NoError(t, err)

	// Home advantage means City win more often at home than away
	assert.Greater(t, cityHome.HomeWin, arsenalHome.AwayWin)
}

func TestPredictFixtureUnknownTeam(t *testing.T) {
	_, err := PredictFixture("Barcelona", "Arsenal", snapshotForTests())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestPredictFixtureInsufficientData(t *testing.T) {
	teams := append(snapshotForTests(), TeamSeasonStats{TeamName: "Wrexham", MatchesPlayed: 0})

	_, err := PredictFixture("Wrexham", "Arsenal", teams)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestPredictMatchUnknownLeague(t *testing.T) {
	_, _, err := PredictMatch("Arsenal", "Chelsea", "Eredivisie")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLeague)
}
