package Models

import (
	"fmt"
	"time"
)

type Tone string

const (
	ToneCasual Tone = "casual"
	ToneFormal Tone = "formal"
)

type EmojiUsage string

const (
	EmojiNone    EmojiUsage = "none"
	EmojiMinimal EmojiUsage = "minimal"
	EmojiHeavy   EmojiUsage = "heavy"
)

// ThreadLimit caps the number of replies the model may hang off a single
// post. ThreadsNone tells the model to avoid threads entirely.
type ThreadLimit string

const (
	ThreadsNone  ThreadLimit = "none"
	ThreadsOne   ThreadLimit = "1"
	ThreadsTwo   ThreadLimit = "2"
	ThreadsThree ThreadLimit = "3"
)

// GenerationConfig is the full input bundle for one generation run.
// It is built once from the caller's request and never mutated after.
type GenerationConfig struct {
	Industry          string
	Topics            []string
	Tone              Tone
	EmojiUsage        EmojiUsage
	UserIds           []string
	NumberOfUsers     int
	ConversationCount int
	MessageLength     int
	ThreadLimit       ThreadLimit
	AccountContext    string
	CustomPrompt      string
	// Structured asks the model for the JSON conversation object,
	// otherwise we request plain newline-delimited sentences
	Structured bool
}

func (c GenerationConfig) Validate() error {
	if c.NumberOfUsers <= 0 {
		return fmt.Errorf("invalid number of users: %d", c.NumberOfUsers)
	}
	if c.NumberOfUsers > len(c.UserIds) {
		return &InsufficientIdentitiesError{Requested: c.NumberOfUsers, Available: len(c.UserIds)}
	}
	if c.ConversationCount <= 0 {
		return fmt.Errorf("invalid conversation count: %d", c.ConversationCount)
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("at least one topic is required")
	}
	return nil
}

// Reply mirrors one element of a post's "replies" array in the model
// output. Replies cannot nest further.
type Reply struct {
	Author  string   `json:"author"`
	Message string   `json:"message"`
	Reacjis []string `json:"reacjis"`
}

// Post is one top-level conversation message as emitted by the model.
// "reacjis" is the field name the model is asked to produce, so it is
// kept on the wire format here too.
type Post struct {
	Author  string   `json:"author"`
	Message string   `json:"message"`
	Reacjis []string `json:"reacjis"`
	Replies []Reply  `json:"replies"`
}

type ConversationData struct {
	Conversations []Post `json:"conversations"`
}

// IdentityPool holds the candidate user ids for a playback run together
// with the randomly selected subset the model was told to write for.
// Author lookups run against the union of both: the selected users are
// guaranteed participants but the model may name any candidate directly.
type IdentityPool struct {
	All      []string
	Selected []string
}

// Resolvable returns the union of All and Selected with duplicates
// removed, preserving first-seen order.
func (p *IdentityPool) Resolvable() []string {
	seen := make(map[string]struct{}, len(p.All)+len(p.Selected))
	var union []string
	for _, userId := range append(append([]string{}, p.All...), p.Selected...) {
		if _, ok := seen[userId]; ok {
			continue
		}
		seen[userId] = struct{}{}
		union = append(union, userId)
	}
	return union
}

// Profile is the display identity a message is posted under.
type Profile struct {
	Username string
	IconUrl  string
}

// ArchiveRecord is the write-once audit row saved for every generation
// call: the exact prompt we sent and the raw completion we got back.
type ArchiveRecord struct {
	Id       string
	Prompt   string
	Response string
}

// FailurePolicy decides what a failed post or reply does to the rest of
// the run. Reaction failures are always skipped regardless of policy.
type FailurePolicy string

const (
	BestEffortSkip    FailurePolicy = "best-effort-skip"
	AbortOnFirstError FailurePolicy = "abort-on-first-error"
)

type PlaybackOptions struct {
	Policy FailurePolicy
	// Pacing is the pause between successive top-level posts so the
	// conversation reads at a human cadence. Zero disables it.
	Pacing time.Duration
}

func DefaultPlaybackOptions() PlaybackOptions {
	return PlaybackOptions{
		Policy: BestEffortSkip,
		Pacing: 1 * time.Second,
	}
}
