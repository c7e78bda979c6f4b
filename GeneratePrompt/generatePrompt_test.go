package GeneratePrompt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"slack-convo-mimic/Models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingArchive struct {
	records   []Models.ArchiveRecord
	saveError error
}

func (a *recordingArchive) SaveResponse(ctx context.Context, record Models.ArchiveRecord) error {
	if a.saveError != nil {
		return a.saveError
	}
	a.records = append(a.records, record)
	return nil
}

func baseConfig() Models.GenerationConfig {
	return Models.GenerationConfig{
		Industry:          "logistics",
		Topics:            []string{"warehouse automation"},
		Tone:              Models.ToneCasual,
		EmojiUsage:        Models.EmojiMinimal,
		UserIds:           []string{"U1", "U2", "U3"},
		NumberOfUsers:     2,
		ConversationCount: 5,
		MessageLength:     40,
		ThreadLimit:       Models.ThreadsTwo,
		Structured:        true,
	}
}

func TestBuildPromptEnumeratesUsers(t *testing.T) {
	promptText := BuildPrompt(baseConfig())
	assert.Contains(t, promptText, "U1, U2, U3")
	assert.Contains(t, promptText, "between 2 people")
	assert.Contains(t, promptText, "warehouse automation")
	assert.Contains(t, promptText, "logistics industry")
	assert.Contains(t, promptText, "casual")
}

func TestBuildPromptEmojiRules(t *testing.T) {
	config := baseConfig()

	config.EmojiUsage = Models.EmojiNone
	assert.Contains(t, BuildPrompt(config), "Do not use any emoji")

	config.EmojiUsage = Models.EmojiMinimal
	assert.Contains(t, BuildPrompt(config), "1 emoji per sentence")

	config.EmojiUsage = Models.EmojiHeavy
	promptText := BuildPrompt(config)
	assert.Contains(t, promptText, "3+ emoji per sentence")
	assert.Contains(t, promptText, "standard Slack emoji only")
}

func TestBuildPromptThreadRules(t *testing.T) {
	config := baseConfig()

	config.ThreadLimit = Models.ThreadsNone
	assert.Contains(t, BuildPrompt(config), "Do not use threads")

	config.ThreadLimit = Models.ThreadsThree
	assert.Contains(t, BuildPrompt(config), "at most 3 threaded replies")
}

func TestBuildPromptAccountContextReplacesIndustry(t *testing.T) {
	config := baseConfig()
	config.AccountContext = "Acme Corp, a freight broker in Ohio"

	promptText := BuildPrompt(config)
	assert.Contains(t, promptText, "Acme Corp, a freight broker in Ohio")
	assert.NotContains(t, promptText, "logistics industry")
}

func TestBuildPromptCustomPromptInsertedVerbatim(t *testing.T) {
	config := baseConfig()
	config.CustomPrompt = "Mention the quarterly review at least once."
	assert.Contains(t, BuildPrompt(config), "Mention the quarterly review at least once.")
}

func TestBuildPromptStructuredVsSimple(t *testing.T) {
	config := baseConfig()

	config.Structured = true
	assert.Contains(t, BuildPrompt(config), "\"conversations\" array")

	config.Structured = false
	assert.Contains(t, BuildPrompt(config), "without speaker names or labels")
}

func completionServer(t *testing.T, statusCode int, content string, sawRequest *completionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if sawRequest != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(sawRequest))
		}
		if statusCode != http.StatusOK {
			w.WriteHeader(statusCode)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
}

func testClient(serverUrl string, archive Archiver) *Client {
	client := NewClient("test-key", archive, zerolog.Nop())
	client.BaseUrl = serverUrl
	return client
}

func TestGenerateConversation(t *testing.T) {
	var sawRequest completionRequest
	server := completionServer(t, http.StatusOK, `{"conversations":[]}`, &sawRequest)
	defer server.Close()

	archive := &recordingArchive{}
	client := testClient(server.URL, archive)

	promptText, responseText, generateError := client.GenerateConversation(context.Background(), baseConfig())
	require.NoError(t, generateError)
	assert.Equal(t, `{"conversations":[]}`, responseText)
	assert.Equal(t, BuildPrompt(baseConfig()), promptText)

	// structured mode asks for a JSON object response
	require.NotNil(t, sawRequest.ResponseFormat)
	assert.Equal(t, "json_object", sawRequest.ResponseFormat.Type)
	assert.Equal(t, defaultModel, sawRequest.Model)
	require.Len(t, sawRequest.Messages, 1)
	assert.Equal(t, "user", sawRequest.Messages[0].Role)
	assert.Equal(t, promptText, sawRequest.Messages[0].Content)

	// the exchange was archived under a fresh id
	require.Len(t, archive.records, 1)
	assert.NotEmpty(t, archive.records[0].Id)
	assert.Equal(t, promptText, archive.records[0].Prompt)
	assert.Equal(t, responseText, archive.records[0].Response)
}

func TestGenerateConversationSimpleModeOmitsResponseFormat(t *testing.T) {
	var sawRequest completionRequest
	server := completionServer(t, http.StatusOK, "Hi\nHello", &sawRequest)
	defer server.Close()

	config := baseConfig()
	config.Structured = false

	client := testClient(server.URL, &recordingArchive{})
	_, _, generateError := client.GenerateConversation(context.Background(), config)
	require.NoError(t, generateError)
	assert.Nil(t, sawRequest.ResponseFormat)
}

func TestGenerateConversationUpstreamFailure(t *testing.T) {
	server := completionServer(t, http.StatusTooManyRequests, "", nil)
	defer server.Close()

	archive := &recordingArchive{}
	client := testClient(server.URL, archive)

	_, _, generateError := client.GenerateConversation(context.Background(), baseConfig())
	require.Error(t, generateError)

	var upstreamError *Models.UpstreamError
	require.ErrorAs(t, generateError, &upstreamError)
	assert.Equal(t, http.StatusTooManyRequests, upstreamError.StatusCode)
	assert.Empty(t, archive.records, "failed generations are not archived")
}

func TestGenerateConversationArchiveFailureIsNonFatal(t *testing.T) {
	server := completionServer(t, http.StatusOK, "generated text", nil)
	defer server.Close()

	healthy := testClient(server.URL, &recordingArchive{})
	broken := testClient(server.URL, &recordingArchive{saveError: errors.New("datastore down")})

	_, healthyText, healthyError := healthy.GenerateConversation(context.Background(), baseConfig())
	require.NoError(t, healthyError)
	_, brokenText, brokenError := broken.GenerateConversation(context.Background(), baseConfig())
	require.NoError(t, brokenError)

	// the generation result is identical whether or not the archive
	// write succeeds
	assert.Equal(t, healthyText, brokenText)
}
