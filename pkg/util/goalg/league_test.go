package goalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLeagueMultiKey(t *testing.T) {
	// Slug, name and id should all resolve to the same value regardless of case
	bySlug, err := ResolveLeague("epl")
	require.NoError(t, err)

	byUpperSlug, err := ResolveLeague("EPL")
	require.NoError(t, err)

	byName, err := ResolveLeague("Premier League")
	require.NoError(t, err)

	byID, err := ResolveLeague("9")
	require.NoError(t, err)

	assert.Equal(t, bySlug, byUpperSlug)
	assert.Equal(t, bySlug, byName)
	assert.Equal(t, bySlug, byID)
	assert.Equal(t, 9, bySlug.ID)
}

func TestResolveLeagueSlugVariants(t *testing.T) {
	variants := []string{"La_liga", "la liga", "LaLiga", "12"}
	for _, v := range variants {
		lg, err := ResolveLeague(v)
		require.NoError(t, err, "variant %q should resolve", v)
		assert.Equal(t, "La Liga", lg.Name)
	}
}

func TestResolveLeagueUnknown(t *testing.T) {
	_, err := ResolveLeague("MLS")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLeague)

	_, err = ResolveLeague("")
	assert.ErrorIs(t, err, ErrUnknownLeague)

	_, err = ResolveLeague("999")
	assert.ErrorIs(t, err, ErrUnknownLeague)
}

func TestAllLeaguesSortedAndUnique(t *testing.T) {
	leagues := AllLeagues()
	require.Len(t, leagues, 5)

	seen := make(map[int]bool)
	for i, lg := range leagues {
		assert.False(t, seen[lg.ID], "duplicate league id %d", lg.ID)
		seen[lg.ID] = true
		if i > 0 {
			assert.Greater(t, lg.ID, leagues[i-1].ID, "leagues should be ordered by id")
		}
	}
}

func TestAllLeaguesReturnsCopy(t *testing.T) {
	first := AllLeagues()
	first[0].Name = "mutated"

	again := AllLeagues()
	assert.NotEqual(t, "mutated", again[0].Name)
}
