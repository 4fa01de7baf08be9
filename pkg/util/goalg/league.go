package goalg

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// League identifies a supported competition.
// The numeric ids predate this server and are kept for compatibility with
// anything that stored them; Slug is the understat URL slug.
type League struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// leagues is the full set of supported competitions.
// Immutable after process start, looked up by id, name or slug.
var leagues = []League{
	{ID: 9, Name: "Premier League", Slug: "EPL"},
	{ID: 11, Name: "Serie A", Slug: "Serie_A"},
	{ID: 12, Name: "La Liga", Slug: "La_liga"},
	{ID: 13, Name: "Ligue 1", Slug: "Ligue_1"},
	{ID: 20, Name: "Bundesliga", Slug: "Bundesliga"},
}

// AllLeagues returns the supported leagues ordered by id
func AllLeagues() []League {
	ret := make([]League, len(leagues))
	copy(ret, leagues)
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}

// ResolveLeague resolves a league from a numeric id, slug or name, all
// case-insensitively. Slugs tolerate the underscore/no-underscore variants
// people actually type ("La Liga", "la_liga", "LaLiga").
func ResolveLeague(identifier string) (League, error) {
	q := strings.TrimSpace(identifier)
	if q == "" {
		return League{}, fmt.Errorf("%w: empty league identifier", ErrUnknownLeague)
	}

	// Match by numeric id
	if id, err := strconv.Atoi(q); err == nil {
		for _, lg := range leagues {
			if lg.ID == id {
				return lg, nil
			}
		}
	}

	qKey := squash(q)
	for _, lg := range leagues {
		if qKey == squash(lg.Slug) || qKey == squash(lg.Name) {
			return lg, nil
		}
	}

	available := make([]string, 0, len(leagues))
	for _, lg := range AllLeagues() {
		available = append(available, fmt.Sprintf("%s (%s)", lg.Slug, lg.Name))
	}
	return League{}, fmt.Errorf("%w: '%s'. Available: %s", ErrUnknownLeague, identifier, strings.Join(available, ", "))
}

// squash lowercases and strips separators so "La Liga", "La_liga" and "laliga" compare equal
func squash(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}
