package ValidEmojis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	emojiName, known := Normalize(":thumbsup:")
	assert.True(t, known)
	assert.Equal(t, "thumbsup", emojiName)

	emojiName, known = Normalize("joy")
	assert.True(t, known)
	assert.Equal(t, "joy", emojiName)
}

func TestNormalizeRejectsUnknown(t *testing.T) {
	_, known := Normalize("fake_emoji")
	assert.False(t, known)

	_, known = Normalize(":totally_custom_workspace_reaction:")
	assert.False(t, known)

	_, known = Normalize("")
	assert.False(t, known)
}

func TestVocabularyIsPlatformStandardSized(t *testing.T) {
	assert.Greater(t, Count(), 300)
}
