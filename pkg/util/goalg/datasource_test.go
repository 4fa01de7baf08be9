package goalg

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leagueDataFixture = `{
	"league": {"id": "9", "title": "EPL"},
	"teams": [
		{
			"id": "83",
			"title": "Arsenal",
			"history": [
				{"xG": 2.1, "xGA": 0.8, "scored": 3, "missed": 1},
				{"xG": 1.4, "xGA": 1.2, "scored": "1", "missed": "1"}
			]
		},
		{
			"id": "88",
			"title": "Chelsea",
			"history": [
				{"xG": 0.9, "xGA": 1.6, "scored": 0, "missed": 2}
			]
		},
		{
			"id": "999",
			"title": "Ghost Team",
			"history": []
		}
	]
}`

func TestParseLeagueDataList(t *testing.T) {
	teams, err := ParseLeagueData([]byte(leagueDataFixture))
	require.NoError(t, err)
	require.Len(t, teams, 2, "teams with no history are dropped")

	arsenal := teams[0]
	assert.Equal(t, "Arsenal", arsenal.TeamName)
	assert.Equal(t, 2, arsenal.MatchesPlayed)
	assert.Equal(t, 4, arsenal.GoalsScored)
	assert.Equal(t, 2, arsenal.GoalsConceded)
	assert.InDelta(t, 3.5, arsenal.XG, 1e-9)
	assert.InDelta(t, 2.0, arsenal.XGA, 1e-9)

	chelsea := teams[1]
	assert.Equal(t, "Chelsea", chelsea.TeamName)
	assert.Equal(t, 1, chelsea.MatchesPlayed)
	assert.Equal(t, 0, chelsea.GoalsScored)
	assert.Equal(t, 2, chelsea.GoalsConceded)
}

func TestParseLeagueDataMap(t *testing.T) {
	// Understat has also served teams keyed by id
	body := `{"teams": {
		"83": {"title": "Arsenal", "history": [{"xG": 2.1, "xGA": 0.8, "scored": 3, "missed": 1}]},
		"88": {"title": "Chelsea", "history": [{"xG": 0.9, "xGA": 1.6, "scored": 0, "missed": 2}]}
	}}`

	teams, err := ParseLeagueData([]byte(body))
	require.NoError(t, err)
	assert.Len(t, teams, 2)
}

func TestParseLeagueDataRejectsGarbage(t *testing.T) {
	_, err := ParseLeagueData([]byte("<html>rate limited</html>"))
	assert.Error(t, err)

	_, err = ParseLeagueData([]byte(`{"league": {}}`))
	assert.Error(t, err)

	_, err = ParseLeagueData([]byte(`{"teams": []}`))
	assert.Error(t, err)
}

// hexEscape encodes a string the way understat embeds teamsData in the page
func hexEscape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		sb.WriteString(fmt.Sprintf("\\x%02x", s[i]))
	}
	return sb.String()
}

func leaguePageFixture(teamsJSON string) []byte {
	page := `<html><head><title>EPL</title></head><body>
	<script>var datesData = JSON.parse('');</script>
	<script>var teamsData = JSON.parse('` + hexEscape(teamsJSON) + `');</script>
	</body></html>`
	return []byte(page)
}

func TestParseLeaguePage(t *testing.T) {
	teamsJSON := `{"83": {"title": "Arsenal", "history": [{"xG": 2.1, "xGA": 0.8, "scored": 3, "missed": 1}]}}`

	teams, err := ParseLeaguePage(leaguePageFixture(teamsJSON))
	require.NoError(t, err)
	require.Len(t, teams, 1)

	assert.Equal(t, "Arsenal", teams[0].TeamName)
	assert.Equal(t, 1, teams[0].MatchesPlayed)
	assert.Equal(t, 3, teams[0].GoalsScored)
	assert.InDelta(t, 2.1, teams[0].XG, 1e-9)
}

func TestParseLeaguePageWithoutTeamsData(t *testing.T) {
	_, err := ParseLeaguePage([]byte(`<html><script>var other = 1;</script></html>`))
	assert.Error(t, err)
}

func TestDecodeHexEscapes(t *testing.T) {
	decoded, err := decodeHexEscapes(`\x7b\x22a\x22\x3a1\x7d`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, decoded)

	// Non-escape content passes through untouched
	decoded, err = decodeHexEscapes(`plain text`)
	require.NoError(t, err)
	assert.Equal(t, "plain text", decoded)

	_, err = decodeHexEscapes(`\xzz`)
	assert.Error(t, err)
}

func TestGetLeagueTeamsFallsBackToHtml(t *testing.T) {
	setupCacheTest(t)

	teamsJSON := `{"83": {"title": "Arsenal", "history": [{"xG": 2.1, "xGA": 0.8, "scored": 3, "missed": 1}]}}`
	ds := &Datasource{
		LeagueDataURL: "https://example.invalid/getLeagueData/",
		LeaguePageURL: "https://example.invalid/league/",
		fetchJson: func(url string) ([]byte, error) {
			return nil, fmt.Errorf("endpoint gone")
		},
		fetchHtml: func(url string) ([]byte, error) {
			return leaguePageFixture(teamsJSON), nil
		},
	}

	league, err := ResolveLeague("EPL")
	require.NoError(t, err)

	teams, err := ds.GetLeagueTeams(league)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Arsenal", teams[0].TeamName)

	// The fetched snapshot lands in the cache for next time
	cached, ok := ReadCachedTeams(league.ID, CurrentSeason())
	require.True(t, ok)
	assert.Equal(t, "Arsenal", cached[0].TeamName)
}

func TestGetLeagueTeamsPrefersCache(t *testing.T) {
	setupCacheTest(t)

	league, err := ResolveLeague("EPL")
	require.NoError(t, err)

	cachedTeams := []TeamSeasonStats{{TeamName: "Cached FC", MatchesPlayed: 5, XG: 7.0, XGA: 6.0}}
	require.NoError(t, WriteCachedTeams(league.ID, CurrentSeason(), cachedTeams))

	ds := &Datasource{
		fetchJson: func(url string) ([]byte, error) {
			t.Fatal("should not hit the network on a cache hit")
			return nil, nil
		},
		fetchHtml: func(url string) ([]byte, error) {
			t.Fatal("should not hit the network on a cache hit")
			return nil, nil
		},
	}

	teams, err := ds.GetLeagueTeams(league)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Cached FC", teams[0].TeamName)
}

func TestGetLeagueTeamsSourceUnavailable(t *testing.T) {
	setupCacheTest(t)

	ds := &Datasource{
		fetchJson: func(url string) ([]byte, error) { return nil, fmt.Errorf("timeout") },
		fetchHtml: func(url string) ([]byte, error) { return nil, fmt.Errorf("timeout") },
	}

	league, err := ResolveLeague("Bundesliga")
	require.NoError(t, err)

	_, err = ds.GetLeagueTeams(league)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestCurrentSeason(t *testing.T) {
	season := CurrentSeason()
	now := time.Now().UTC()

	if now.Month() >= time.August {
		assert.Equal(t, now.Year(), season)
	} else {
		assert.Equal(t, now.Year()-1, season)
	}
}
