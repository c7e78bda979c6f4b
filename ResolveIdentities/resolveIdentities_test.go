package ResolveIdentities

import (
	"testing"

	"slack-convo-mimic/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectIdentities(t *testing.T) {
	candidates := []string{"U1", "U2", "U3", "U4", "U5"}

	// selection is random, so assert the properties that hold for any
	// permutation: size, distinctness, pool membership
	for i := 0; i < 25; i++ {
		pool, selectError := SelectIdentities(candidates, 3)
		require.NoError(t, selectError)
		require.Len(t, pool.Selected, 3)

		seen := map[string]bool{}
		for _, userId := range pool.Selected {
			assert.Contains(t, candidates, userId)
			assert.False(t, seen[userId], "selected ids must be distinct")
			seen[userId] = true
		}
		assert.Equal(t, candidates, pool.All)
	}
}

func TestSelectIdentitiesWholePool(t *testing.T) {
	candidates := []string{"U1", "U2"}
	pool, selectError := SelectIdentities(candidates, 2)
	require.NoError(t, selectError)
	assert.ElementsMatch(t, candidates, pool.Selected)
}

func TestSelectIdentitiesInsufficient(t *testing.T) {
	_, selectError := SelectIdentities([]string{"U1", "U2"}, 3)
	require.Error(t, selectError)

	var insufficientError *Models.InsufficientIdentitiesError
	require.ErrorAs(t, selectError, &insufficientError)
	assert.Equal(t, 3, insufficientError.Requested)
	assert.Equal(t, 2, insufficientError.Available)
}

func TestSelectIdentitiesDoesNotMutateCandidates(t *testing.T) {
	candidates := []string{"U1", "U2", "U3"}
	_, selectError := SelectIdentities(candidates, 2)
	require.NoError(t, selectError)
	assert.Equal(t, []string{"U1", "U2", "U3"}, candidates)
}

func TestNormalizeAuthorToken(t *testing.T) {
	cases := map[string]string{
		"U123":            "U123",
		"@U123":           "@U123 strips the at",
		"<@U123>":         "mention wrapper",
		"<@U123|frankie>": "mention wrapper with label",
		"  U123  ":        "surrounding whitespace",
	}
	for token, name := range cases {
		assert.Equal(t, "U123", NormalizeAuthorToken(token), name)
	}
}

func TestLookupAuthor(t *testing.T) {
	pool := &Models.IdentityPool{
		All:      []string{"U1", "U2", "U3"},
		Selected: []string{"U2"},
	}

	// any candidate resolves, not just the selected subset
	userId, found := LookupAuthor(pool, "U3")
	assert.True(t, found)
	assert.Equal(t, "U3", userId)

	userId, found = LookupAuthor(pool, "<@U2>")
	assert.True(t, found)
	assert.Equal(t, "U2", userId)

	_, found = LookupAuthor(pool, "U9")
	assert.False(t, found)
}
