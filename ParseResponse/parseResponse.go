package ParseResponse

import (
	"encoding/json"
	"fmt"
	"strings"

	"slack-convo-mimic/Models"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog"
)

type ConversationData = Models.ConversationData
type Post = Models.Post
type Reply = Models.Reply

func cleanJson(input string) string {
	input = strings.TrimSpace(input)

	// Remove ```json and ``` if present
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")

	return strings.TrimSpace(input)
}

// ParseSimple treats the completion as plain newline-delimited sentences:
// one message per line, blank lines dropped. No authors, no replies;
// author assignment happens round-robin at playback time.
func ParseSimple(responseText string) []string {
	var messages []string
	for _, line := range strings.Split(responseText, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		messages = append(messages, line)
	}
	return messages
}

// rawPost keeps reacjis and replies as raw JSON so a missing or
// wrong-typed array degrades to empty instead of failing the whole
// parse. The upstream is model output, so this boundary stays lenient.
type rawPost struct {
	Author  string          `json:"author"`
	Message string          `json:"message"`
	Reacjis json.RawMessage `json:"reacjis"`
	Replies json.RawMessage `json:"replies"`
}

type rawReply struct {
	Author  string          `json:"author"`
	Message string          `json:"message"`
	Reacjis json.RawMessage `json:"reacjis"`
}

func decodeStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if jsonUnmarshallError := json.Unmarshal(raw, &list); jsonUnmarshallError != nil {
		return nil
	}
	return list
}

// ParseStructured extracts the conversations object from the raw
// completion text. A ```json fence wrapper is tolerated, and if the
// payload does not unmarshal as-is we run it through jsonrepair once
// before giving up with ErrMalformedResponse.
func ParseStructured(responseText string, logger zerolog.Logger) (*ConversationData, error) {
	cleanedJson := cleanJson(responseText)

	var envelope map[string]json.RawMessage
	jsonUnmarshallError := json.Unmarshal([]byte(cleanedJson), &envelope)
	if jsonUnmarshallError != nil {
		repairedJson, repairError := jsonrepair.JSONRepair(cleanedJson)
		if repairError != nil {
			return nil, fmt.Errorf("%w: %s", Models.ErrMalformedResponse, jsonUnmarshallError.Error())
		}
		logger.Warn().
			Str("error", jsonUnmarshallError.Error()).
			Msg("ParseResponse:ParseStructured#model output needed JSON repair")
		if retryError := json.Unmarshal([]byte(repairedJson), &envelope); retryError != nil {
			return nil, fmt.Errorf("%w: %s", Models.ErrMalformedResponse, retryError.Error())
		}
	}

	rawConversations, hasConversations := envelope["conversations"]
	if !hasConversations {
		return nil, fmt.Errorf("%w: missing conversations field", Models.ErrMalformedResponse)
	}

	var rawPosts []rawPost
	if jsonUnmarshallError := json.Unmarshal(rawConversations, &rawPosts); jsonUnmarshallError != nil {
		return nil, fmt.Errorf("%w: conversations is not an array of posts: %s", Models.ErrMalformedResponse, jsonUnmarshallError.Error())
	}

	conversationData := &ConversationData{}
	for i, raw := range rawPosts {
		if len(raw.Author) == 0 || len(raw.Message) == 0 {
			return nil, fmt.Errorf("%w: conversation %d is missing author or message", Models.ErrMalformedResponse, i)
		}

		post := Post{
			Author:  raw.Author,
			Message: raw.Message,
			Reacjis: decodeStringList(raw.Reacjis),
		}

		var rawReplies []rawReply
		if len(raw.Replies) > 0 {
			// a non-array replies value is normalised to no replies
			if jsonUnmarshallError := json.Unmarshal(raw.Replies, &rawReplies); jsonUnmarshallError != nil {
				logger.Warn().
					Int("conversation", i).
					Msg("ParseResponse:ParseStructured#replies field is not an array, dropping")
			}
		}
		for _, rawReplyEntry := range rawReplies {
			post.Replies = append(post.Replies, Reply{
				Author:  rawReplyEntry.Author,
				Message: rawReplyEntry.Message,
				Reacjis: decodeStringList(rawReplyEntry.Reacjis),
			})
		}

		conversationData.Conversations = append(conversationData.Conversations, post)
	}

	return conversationData, nil
}
