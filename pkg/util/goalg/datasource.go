package goalg

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/richard-senior/goalgorithm-mcp/internal/logger"
	"github.com/richard-senior/goalgorithm-mcp/pkg/transport"
)

// Datasource fetches per-team season aggregates from understat.com.
// The primary path is the getLeagueData JSON endpoint; if that stops
// answering (understat reshape it occasionally) we fall back to scraping the
// teamsData blob embedded in the league page HTML.
type Datasource struct {
	LeagueDataURL string
	LeaguePageURL string

	// injectable for unit tests
	fetchJson func(url string) ([]byte, error)
	fetchHtml func(url string) ([]byte, error)
}

var (
	datasourceInstance *Datasource
	datasourceOnce     sync.Once
)

// GetDatasourceInstance returns the singleton instance of Datasource
func GetDatasourceInstance() *Datasource {
	datasourceOnce.Do(func() {
		datasourceInstance = NewDatasource()
	})
	return datasourceInstance
}

// NewDatasource creates a datasource wired to the live understat endpoints
func NewDatasource() *Datasource {
	return &Datasource{
		LeagueDataURL: Config.UnderstatBaseURL,
		LeaguePageURL: Config.UnderstatSiteURL,
		fetchJson:     transport.GetJson,
		fetchHtml:     transport.GetHtml,
	}
}

// CurrentSeason returns the start year of the current European season.
// Leagues run August to May so before August we are still in last year's season.
func CurrentSeason() int {
	now := time.Now().UTC()
	if now.Month() >= time.August {
		return now.Year()
	}
	return now.Year() - 1
}

// GetLeagueTeams returns the season aggregates for every team in a league,
// served from the cache when fresh
func (ds *Datasource) GetLeagueTeams(league League) ([]TeamSeasonStats, error) {
	season := CurrentSeason()

	if teams, ok := ReadCachedTeams(league.ID, season); ok {
		return teams, nil
	}

	teams, err := ds.fetchLeagueTeams(league, season)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: no team data for %s season %d", ErrSourceUnavailable, league.Name, season)
	}

	if err := WriteCachedTeams(league.ID, season, teams); err != nil {
		// A failed cache write is not fatal, we still have the data
		logger.Warn("Failed to cache league teams", err)
	}

	return teams, nil
}

// fetchLeagueTeams tries the JSON endpoint then the HTML fallback
func (ds *Datasource) fetchLeagueTeams(league League, season int) ([]TeamSeasonStats, error) {
	url := fmt.Sprintf("%s%s/%d", ds.LeagueDataURL, league.Slug, season)
	body, err := ds.fetchJson(url)
	if err == nil {
		teams, perr := ParseLeagueData(body)
		if perr == nil {
			return teams, nil
		}
		logger.Warn("Could not parse understat JSON response, trying HTML fallback", perr)
	} else {
		logger.Warn("Understat JSON endpoint failed, trying HTML fallback", err)
	}

	pageURL := fmt.Sprintf("%s%s/%d", ds.LeaguePageURL, league.Slug, season)
	html, err := ds.fetchHtml(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	teams, err := ParseLeaguePage(html)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return teams, nil
}

// understatTeam mirrors the loosely typed understat team record.
// Only title and history matter, everything else is ignored.
type understatTeam struct {
	Title   string           `json:"title"`
	History []understatMatch `json:"history"`
}

// understatMatch is one played match in a team's season history
type understatMatch struct {
	XG     float64     `json:"xG"`
	XGA    float64     `json:"xGA"`
	Scored json.Number `json:"scored"`
	Missed json.Number `json:"missed"`
}

// ParseLeagueData parses the getLeagueData JSON body into strict per-team
// season aggregates. Understat has served the teams stanza both as an array
// and as a map keyed by team id, so both shapes are accepted.
func ParseLeagueData(body []byte) ([]TeamSeasonStats, error) {
	var envelope struct {
		Teams json.RawMessage `json:"teams"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("could not parse understat response: %w", err)
	}
	if len(envelope.Teams) == 0 {
		return nil, fmt.Errorf("understat response has no teams stanza")
	}
	return parseTeamsStanza(envelope.Teams)
}

func parseTeamsStanza(raw json.RawMessage) ([]TeamSeasonStats, error) {
	var asList []understatTeam
	if err := json.Unmarshal(raw, &asList); err == nil {
		return aggregateTeams(asList)
	}

	var asMap map[string]understatTeam
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, fmt.Errorf("teams stanza is neither a list nor a map: %w", err)
	}
	list := make([]understatTeam, 0, len(asMap))
	for _, t := range asMap {
		list = append(list, t)
	}
	return aggregateTeams(list)
}

// aggregateTeams folds per-match history into season totals.
// The dynamic understat shapes are mapped to the strict TeamSeasonStats value
// here at the boundary so the prediction core never sees partial records.
func aggregateTeams(teams []understatTeam) ([]TeamSeasonStats, error) {
	result := make([]TeamSeasonStats, 0, len(teams))

	for _, team := range teams {
		if team.Title == "" || len(team.History) == 0 {
			continue
		}

		ts := TeamSeasonStats{
			TeamName:      team.Title,
			MatchesPlayed: len(team.History),
		}
		for _, match := range team.History {
			ts.XG += match.XG
			ts.XGA += match.XGA
			if scored, err := match.Scored.Int64(); err == nil {
				ts.GoalsScored += int(scored)
			}
			if missed, err := match.Missed.Int64(); err == nil {
				ts.GoalsConceded += int(missed)
			}
		}
		result = append(result, ts)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no usable team records in understat data")
	}
	return result, nil
}

// ParseLeaguePage extracts the teamsData blob from a league page.
// Understat embeds it as JSON.parse('...') with hex escaped content inside a
// script tag, so we locate the script with goquery and decode the literal.
func ParseLeaguePage(html []byte) ([]TeamSeasonStats, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return nil, fmt.Errorf("could not parse league page: %w", err)
	}

	var blob string
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, "teamsData") {
			blob = text
			return false
		}
		return true
	})
	if blob == "" {
		return nil, fmt.Errorf("no teamsData script on league page")
	}

	start := strings.Index(blob, "JSON.parse('")
	if start == -1 {
		return nil, fmt.Errorf("teamsData script has unexpected shape")
	}
	start += len("JSON.parse('")
	end := strings.Index(blob[start:], "')")
	if end == -1 {
		return nil, fmt.Errorf("unterminated teamsData literal")
	}

	decoded, err := decodeHexEscapes(blob[start : start+end])
	if err != nil {
		return nil, fmt.Errorf("could not decode teamsData literal: %w", err)
	}

	return parseTeamsStanza([]byte(decoded))
}

// decodeHexEscapes decodes \xNN escapes in a javascript string literal
func decodeHexEscapes(s string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			hi := hexVal(s[i+2])
			lo := hexVal(s[i+3])
			if hi < 0 || lo < 0 {
				return "", fmt.Errorf("bad hex escape at offset %d", i)
			}
			sb.WriteByte(byte(hi<<4 | lo))
			i += 4
			continue
		}
		sb.WriteByte(s[i])
		i++
	}
	return sb.String(), nil
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	default:
		return -1
	}
}
