package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"slack-convo-mimic/GeneratePrompt"
	"slack-convo-mimic/GetUsers"
	"slack-convo-mimic/Models"
	"slack-convo-mimic/ParseResponse"
	"slack-convo-mimic/PostConversation"
	"slack-convo-mimic/Repo"
	"slack-convo-mimic/ResolveIdentities"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

var dbPool *pgxpool.Pool
var slackApi *slack.Client
var logger zerolog.Logger

// RunRequest is the typed configuration surface the invoking workflow
// posts to /run: the generation config plus the API key and target
// channel.
type RunRequest struct {
	ApiKey            string   `json:"api_key"`
	ChannelId         string   `json:"channel_id"`
	Industry          string   `json:"industry"`
	Topics            []string `json:"topics"`
	Tone              string   `json:"tone"`
	EmojiUsage        string   `json:"emoji_usage"`
	UserIds           []string `json:"user_ids"`
	NumberOfUsers     int      `json:"number_of_users"`
	ConversationCount int      `json:"conversation_count"`
	MessageLength     int      `json:"message_length"`
	ThreadLimit       string   `json:"thread_limit"`
	AccountContext    string   `json:"account_context"`
	CustomPrompt      string   `json:"custom_prompt"`
	Structured        bool     `json:"structured"`
	Policy            string   `json:"policy"`
}

type RunResponse struct {
	Result string `json:"result"`
}

func writeResult(w http.ResponseWriter, statusCode int, result string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(RunResponse{Result: result})
}

func (req RunRequest) toConfig() Models.GenerationConfig {
	config := Models.GenerationConfig{
		Industry:          req.Industry,
		Topics:            req.Topics,
		Tone:              Models.Tone(req.Tone),
		EmojiUsage:        Models.EmojiUsage(req.EmojiUsage),
		UserIds:           req.UserIds,
		NumberOfUsers:     req.NumberOfUsers,
		ConversationCount: req.ConversationCount,
		MessageLength:     req.MessageLength,
		ThreadLimit:       Models.ThreadLimit(req.ThreadLimit),
		AccountContext:    req.AccountContext,
		CustomPrompt:      req.CustomPrompt,
		Structured:        req.Structured,
	}
	if len(config.Tone) == 0 {
		config.Tone = Models.ToneCasual
	}
	if len(config.EmojiUsage) == 0 {
		config.EmojiUsage = Models.EmojiMinimal
	}
	if len(config.ThreadLimit) == 0 {
		config.ThreadLimit = Models.ThreadsNone
	}
	if config.MessageLength == 0 {
		config.MessageLength = 50
	}
	return config
}

// HandleRun executes one full playback run: generate, parse, post.
// Every run terminates with exactly one result string, success or error.
func HandleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if decodeError := json.NewDecoder(r.Body).Decode(&req); decodeError != nil {
		writeResult(w, http.StatusBadRequest, fmt.Sprintf("Error: invalid request body: %s", decodeError.Error()))
		return
	}

	if len(req.ChannelId) == 0 {
		writeResult(w, http.StatusBadRequest, "Error: channel_id is required")
		return
	}

	config := req.toConfig()
	if validateError := config.Validate(); validateError != nil {
		writeResult(w, http.StatusBadRequest, fmt.Sprintf("Error: %s", validateError.Error()))
		return
	}

	apiKey := req.ApiKey
	if len(apiKey) == 0 {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if len(apiKey) == 0 {
		writeResult(w, http.StatusBadRequest, "Error: no API key provided")
		return
	}

	// select identities before spending a model call; an undersized
	// candidate pool is fatal before any write happens
	pool, selectError := ResolveIdentities.SelectIdentities(config.UserIds, config.NumberOfUsers)
	if selectError != nil {
		writeResult(w, http.StatusBadRequest, fmt.Sprintf("Error: %s", selectError.Error()))
		return
	}

	promptClient := GeneratePrompt.NewClient(apiKey, Repo.ResponseStore{DbPool: dbPool}, logger)
	if model := os.Getenv("OPENAI_MODEL"); len(model) > 0 {
		promptClient.Model = model
	}

	_, responseText, generateError := promptClient.GenerateConversation(r.Context(), config)
	if generateError != nil {
		logger.Error().Err(generateError).Msg("main:HandleRun#generation failed")
		writeResult(w, http.StatusBadGateway, fmt.Sprintf("Error: %s", generateError.Error()))
		return
	}

	options := Models.DefaultPlaybackOptions()
	if req.Policy == string(Models.AbortOnFirstError) {
		options.Policy = Models.AbortOnFirstError
	}
	poster := PostConversation.NewPoster(slackApi, options, logger)

	var result string
	var playbackError error
	if config.Structured {
		conversationData, parseError := ParseResponse.ParseStructured(responseText, logger)
		if parseError != nil {
			logger.Error().Err(parseError).Msg("main:HandleRun#could not parse model response")
			writeResult(w, http.StatusBadGateway, fmt.Sprintf("Error: %s", parseError.Error()))
			return
		}
		result, playbackError = poster.PostConversation(req.ChannelId, conversationData, pool)
	} else {
		messages := ParseResponse.ParseSimple(responseText)
		result, playbackError = poster.PostSimple(req.ChannelId, messages, pool)
	}

	if playbackError != nil {
		logger.Error().Err(playbackError).Str("channel_id", req.ChannelId).Msg("main:HandleRun#playback failed")
		writeResult(w, http.StatusInternalServerError, fmt.Sprintf("Error: %s", playbackError.Error()))
		return
	}

	writeResult(w, http.StatusOK, result)
}

// HandleGetUsers fetches the non-bot members of a channel and snapshots
// the list for later runs.
func HandleGetUsers(w http.ResponseWriter, r *http.Request) {
	channelId := r.URL.Query().Get("channel_id")
	if len(channelId) == 0 {
		http.Error(w, "Missing channel_id", http.StatusBadRequest)
		return
	}

	memberIds, getMembersError := GetUsers.GetChannelMembers(slackApi, channelId, logger)
	if getMembersError != nil {
		logger.Error().Err(getMembersError).Str("channel_id", channelId).Msg("main:HandleGetUsers#member fetch failed")
		http.Error(w, "Failed to fetch channel members", http.StatusInternalServerError)
		return
	}

	// snapshot failure should not block the caller getting the list
	if saveMembersError := Repo.SaveChannelMembers(r.Context(), channelId, memberIds, dbPool); saveMembersError != nil {
		logger.Error().Err(saveMembersError).Str("channel_id", channelId).Msg("main:HandleGetUsers#member snapshot failed, continuing")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"user_ids": strings.Join(memberIds, ","),
	})
}

func main() {

	if dotenvError := godotenv.Load(); dotenvError != nil {
		// fine in deployed environments, the real env is already set
		fmt.Println("No .env file loaded:", dotenvError.Error())
	}

	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	dbInitialisationError := Repo.InitDbPool(&dbPool)

	if dbInitialisationError != nil {
		logger.Fatal().Err(dbInitialisationError).Msg("main:main#failed to initialise DB")
	}

	slackApi = slack.New(os.Getenv("SLACK_BOT_TOKEN"))

	http.HandleFunc("/run", HandleRun)
	http.HandleFunc("/users", HandleGetUsers)

	// Health endpoint
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Service running"))
	})

	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "8080"
	}
	logger.Info().Str("port", port).Msg("main:main#listening")
	if serveError := http.ListenAndServe(":"+port, nil); serveError != nil {
		logger.Fatal().Err(serveError).Msg("main:main#server stopped")
	}
}
