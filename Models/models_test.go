package Models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvableUnion(t *testing.T) {
	pool := &IdentityPool{
		All:      []string{"U1", "U2", "U3"},
		Selected: []string{"U2", "U4"},
	}
	assert.Equal(t, []string{"U1", "U2", "U3", "U4"}, pool.Resolvable())
}

func TestValidateUserCountBound(t *testing.T) {
	config := GenerationConfig{
		Topics:            []string{"launch"},
		UserIds:           []string{"U1", "U2"},
		NumberOfUsers:     3,
		ConversationCount: 4,
	}

	validateError := config.Validate()
	require.Error(t, validateError)

	var insufficientError *InsufficientIdentitiesError
	assert.ErrorAs(t, validateError, &insufficientError)
}

func TestValidateAccepts(t *testing.T) {
	config := GenerationConfig{
		Topics:            []string{"launch"},
		UserIds:           []string{"U1", "U2"},
		NumberOfUsers:     2,
		ConversationCount: 4,
	}
	assert.NoError(t, config.Validate())
}
