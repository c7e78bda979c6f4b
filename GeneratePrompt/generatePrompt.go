package GeneratePrompt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"slack-convo-mimic/Models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type GenerationConfig = Models.GenerationConfig
type ArchiveRecord = Models.ArchiveRecord

const defaultCompletionUrl = "https://api.openai.com/v1/chat/completions"
const defaultModel = "gpt-3.5-turbo"
const defaultMaxTokens = 500

// Archiver persists one prompt/response pair for audit. Put-only; this
// package never reads archives back.
type Archiver interface {
	SaveResponse(ctx context.Context, record ArchiveRecord) error
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client issues generation requests to the completion endpoint and
// archives each exchange.
type Client struct {
	ApiKey     string
	Model      string
	BaseUrl    string
	MaxTokens  int
	HttpClient *http.Client
	Archive    Archiver
	Logger     zerolog.Logger
}

func NewClient(apiKey string, archive Archiver, logger zerolog.Logger) *Client {
	return &Client{
		ApiKey:     apiKey,
		Model:      defaultModel,
		BaseUrl:    defaultCompletionUrl,
		MaxTokens:  defaultMaxTokens,
		HttpClient: &http.Client{Timeout: 60 * time.Second},
		Archive:    archive,
		Logger:     logger,
	}
}

// BuildPrompt renders the generation request text from the config. The
// candidate ids are enumerated explicitly so the model cannot invent
// participant names.
func BuildPrompt(config GenerationConfig) string {
	var b strings.Builder

	topics := strings.Join(config.Topics, ", ")

	// grounding clause: account context wins over the generic industry text
	if len(config.AccountContext) > 0 {
		b.WriteString(fmt.Sprintf("Generate a conversation between %d people about %s, grounded in the following account context: %s.\n",
			config.NumberOfUsers, topics, config.AccountContext))
	} else {
		b.WriteString(fmt.Sprintf("Generate a conversation between %d people about %s in the %s industry.\n",
			config.NumberOfUsers, topics, config.Industry))
	}

	if len(config.CustomPrompt) > 0 {
		b.WriteString(config.CustomPrompt)
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("The conversation should be %d individual messages in length, each message no longer than %d words.\n",
		config.ConversationCount, config.MessageLength))
	b.WriteString(fmt.Sprintf("Each person should have a distinct perspective and voice. The tone of the conversation should be %s.\n", config.Tone))
	b.WriteString(fmt.Sprintf("The only users that may be mentioned as authors are: %s.\n", strings.Join(config.UserIds, ", ")))

	switch config.EmojiUsage {
	case Models.EmojiNone:
		b.WriteString("Do not use any emoji in the conversation.\n")
	case Models.EmojiMinimal:
		b.WriteString("The use of emoji throughout the conversation should be minimal: 1 emoji per sentence. Emoji should be standard Slack emoji only.\n")
	case Models.EmojiHeavy:
		b.WriteString("The use of emoji throughout the conversation should be heavy: 3+ emoji per sentence. Emoji should be standard Slack emoji only.\n")
	}

	if config.ThreadLimit == Models.ThreadsNone {
		b.WriteString("Do not use threads: every message must be a top-level message with no replies.\n")
	} else {
		b.WriteString(fmt.Sprintf("Each message may have at most %s threaded replies.\n", config.ThreadLimit))
	}

	if config.Structured {
		b.WriteString("Respond with a single JSON object containing a \"conversations\" array. " +
			"Each element must have an \"author\" field (one of the listed user ids), a \"message\" field, " +
			"a \"reacjis\" array of emoji reaction names, and a \"replies\" array of objects with the same author, message and reacjis fields.\n")
	} else {
		b.WriteString("Respond with the messages only, one sentence per line, without speaker names or labels. " +
			"For example, instead of Person A: \"Hi\" the output should just be Hi. Remove quotes.\n")
	}

	return b.String()
}

// GenerateConversation builds the prompt, calls the completion endpoint
// and archives the exchange. An archive failure is logged and swallowed:
// the generated text is still returned to the caller.
func (c *Client) GenerateConversation(ctx context.Context, config GenerationConfig) (string, string, error) {
	promptText := BuildPrompt(config)

	responseText, callOpenAiError := c.callCompletionApi(ctx, promptText, config.Structured)
	if callOpenAiError != nil {
		return promptText, "", callOpenAiError
	}

	archiveRecord := ArchiveRecord{
		Id:       uuid.NewString(),
		Prompt:   promptText,
		Response: responseText,
	}
	if saveResponseError := c.Archive.SaveResponse(ctx, archiveRecord); saveResponseError != nil {
		c.Logger.Error().
			Err(saveResponseError).
			Str("record_id", archiveRecord.Id).
			Msg("GeneratePrompt:GenerateConversation#failed to archive prompt/response, continuing")
	}

	return promptText, responseText, nil
}

func (c *Client) callCompletionApi(ctx context.Context, promptText string, structured bool) (string, error) {
	requestBody := completionRequest{
		Model:     c.Model,
		Messages:  []chatMessage{{Role: "user", Content: promptText}},
		MaxTokens: c.MaxTokens,
	}
	if structured {
		requestBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	encodedBody, jsonMarshallError := json.Marshal(requestBody)
	if jsonMarshallError != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", jsonMarshallError)
	}

	request, newRequestError := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseUrl, bytes.NewReader(encodedBody))
	if newRequestError != nil {
		return "", fmt.Errorf("failed to create completion request: %w", newRequestError)
	}
	request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.ApiKey))
	request.Header.Set("Content-Type", "application/json")

	response, httpError := c.HttpClient.Do(request)
	if httpError != nil {
		return "", fmt.Errorf("failed to call completion API: %w", httpError)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", &Models.UpstreamError{StatusCode: response.StatusCode}
	}

	rawBody, readBodyError := io.ReadAll(response.Body)
	if readBodyError != nil {
		return "", fmt.Errorf("failed to read completion response: %w", readBodyError)
	}

	var decoded completionResponse
	if jsonUnmarshallError := json.Unmarshal(rawBody, &decoded); jsonUnmarshallError != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", jsonUnmarshallError)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return decoded.Choices[0].Message.Content, nil
}
