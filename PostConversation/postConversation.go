package PostConversation

import (
	"fmt"
	"time"

	"slack-convo-mimic/Models"
	"slack-convo-mimic/ResolveIdentities"
	"slack-convo-mimic/ValidEmojis"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

type ConversationData = Models.ConversationData
type IdentityPool = Models.IdentityPool
type Post = Models.Post
type Reply = Models.Reply

const successResult = "Conversation posted successfully"

// SlackGateway is the slice of the Slack API playback writes through.
// *slack.Client satisfies it; tests substitute a recorder.
type SlackGateway interface {
	GetConversationInfo(input *slack.GetConversationInfoInput) (*slack.Channel, error)
	JoinConversation(channelID string) (*slack.Channel, string, []string, error)
	GetUserInfo(user string) (*slack.User, error)
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
	AddReaction(name string, item slack.ItemRef) error
}

// Poster walks a parsed conversation and replays it onto a channel in
// order: each post, then its reactions, then its replies (each with
// their own reactions), then the next post. One blocking Slack call at
// a time; ordering is what makes the conversation readable.
type Poster struct {
	SlackClient SlackGateway
	Options     Models.PlaybackOptions
	Logger      zerolog.Logger
}

func NewPoster(slackClient SlackGateway, options Models.PlaybackOptions, logger zerolog.Logger) *Poster {
	return &Poster{
		SlackClient: slackClient,
		Options:     options,
		Logger:      logger,
	}
}

// PostConversation plays the conversation back into channelId. Every run
// ends in exactly one of two states: the success result string, or an
// error describing the fatal condition. Skipped units only show in logs.
func (p *Poster) PostConversation(channelId string, conversationData *ConversationData, pool *IdentityPool) (string, error) {
	// under the strict policy an unresolvable author anywhere in the
	// tree rejects the run before the first platform write
	if p.Options.Policy == Models.AbortOnFirstError {
		if resolveAllError := resolveAllAuthors(conversationData, pool); resolveAllError != nil {
			return "", resolveAllError
		}
	}

	if membershipError := p.ensureMembership(channelId); membershipError != nil {
		return "", membershipError
	}

	for i, conversation := range conversationData.Conversations {
		if postError := p.playPost(channelId, conversation, pool); postError != nil {
			if p.Options.Policy == Models.AbortOnFirstError {
				return "", postError
			}
			p.Logger.Error().
				Err(postError).
				Str("author", conversation.Author).
				Msg("PostConversation:PostConversation#skipping post")
		}

		// wait a bit between messages to simulate a conversation
		if p.Options.Pacing > 0 && i < len(conversationData.Conversations)-1 {
			time.Sleep(p.Options.Pacing)
		}
	}

	return successResult, nil
}

// PostSimple plays back the freeform variant: bare lines with no model
// authors, assigned round-robin across the selected identities.
func (p *Poster) PostSimple(channelId string, messages []string, pool *IdentityPool) (string, error) {
	if len(pool.Selected) == 0 {
		return "", fmt.Errorf("identity pool has no selected users")
	}

	if membershipError := p.ensureMembership(channelId); membershipError != nil {
		return "", membershipError
	}

	for i, message := range messages {
		userId := pool.Selected[i%len(pool.Selected)]
		if _, postError := p.postAs(channelId, userId, message, ""); postError != nil {
			if p.Options.Policy == Models.AbortOnFirstError {
				return "", postError
			}
			p.Logger.Error().
				Err(postError).
				Str("user_id", userId).
				Msg("PostConversation:PostSimple#skipping message")
		}

		if p.Options.Pacing > 0 && i < len(messages)-1 {
			time.Sleep(p.Options.Pacing)
		}
	}

	return successResult, nil
}

func resolveAllAuthors(conversationData *ConversationData, pool *IdentityPool) error {
	for _, conversation := range conversationData.Conversations {
		if _, found := ResolveIdentities.LookupAuthor(pool, conversation.Author); !found {
			return &Models.AuthorResolutionError{Author: conversation.Author, Known: pool.Resolvable()}
		}
		for _, reply := range conversation.Replies {
			if _, found := ResolveIdentities.LookupAuthor(pool, reply.Author); !found {
				return &Models.AuthorResolutionError{Author: reply.Author, Known: pool.Resolvable()}
			}
		}
	}
	return nil
}

// ensureMembership verifies the bot can write into the channel, joining
// it first if needed. Failure here is always fatal to the run.
func (p *Poster) ensureMembership(channelId string) error {
	channelInfo, getChannelInfoError := p.SlackClient.GetConversationInfo(&slack.GetConversationInfoInput{
		ChannelID: channelId,
	})
	if getChannelInfoError != nil {
		return &Models.ChannelAccessError{ChannelId: channelId, Err: getChannelInfoError}
	}

	if !channelInfo.IsMember {
		if _, _, _, joinChannelError := p.SlackClient.JoinConversation(channelId); joinChannelError != nil {
			return &Models.ChannelAccessError{ChannelId: channelId, Err: joinChannelError}
		}
	}

	return nil
}

// playPost posts one top-level message, attaches its reactions, then
// posts each threaded reply with its reactions. A failing reply is
// skipped without aborting its siblings; reactions are always
// best-effort regardless of the run policy.
func (p *Poster) playPost(channelId string, conversation Post, pool *IdentityPool) error {
	userId, found := ResolveIdentities.LookupAuthor(pool, conversation.Author)
	if !found {
		return &Models.AuthorResolutionError{Author: conversation.Author, Known: pool.Resolvable()}
	}

	messageTs, postError := p.postAs(channelId, userId, conversation.Message, "")
	if postError != nil {
		return postError
	}

	p.addReactions(channelId, messageTs, conversation.Reacjis)

	for _, reply := range conversation.Replies {
		if replyError := p.playReply(channelId, messageTs, reply, pool); replyError != nil {
			if p.Options.Policy == Models.AbortOnFirstError {
				return replyError
			}
			p.Logger.Error().
				Err(replyError).
				Str("author", reply.Author).
				Msg("PostConversation:playPost#skipping reply")
		}
	}

	return nil
}

func (p *Poster) playReply(channelId string, parentTs string, reply Reply, pool *IdentityPool) error {
	userId, found := ResolveIdentities.LookupAuthor(pool, reply.Author)
	if !found {
		return &Models.AuthorResolutionError{Author: reply.Author, Known: pool.Resolvable()}
	}

	replyTs, postError := p.postAs(channelId, userId, reply.Message, parentTs)
	if postError != nil {
		return postError
	}

	p.addReactions(channelId, replyTs, reply.Reacjis)
	return nil
}

// postAs sends one message impersonating userId's display profile. A
// non-empty threadTs posts it as a threaded reply under that parent.
func (p *Poster) postAs(channelId string, userId string, message string, threadTs string) (string, error) {
	profile, fetchProfileError := ResolveIdentities.FetchProfile(p.SlackClient, userId)
	if fetchProfileError != nil {
		return "", fetchProfileError
	}

	messageOptions := []slack.MsgOption{
		slack.MsgOptionText(message, false),
		slack.MsgOptionUsername(profile.Username),
		slack.MsgOptionIconURL(profile.IconUrl),
	}
	if len(threadTs) > 0 {
		messageOptions = append(messageOptions, slack.MsgOptionTS(threadTs))
	}

	_, messageTs, postMessageError := p.SlackClient.PostMessage(channelId, messageOptions...)
	if postMessageError != nil {
		return "", fmt.Errorf("failed to post message as %s: %w", userId, postMessageError)
	}

	return messageTs, nil
}

// addReactions attaches each valid reaction to the message at messageTs.
// Unknown names and failed attaches are logged and skipped, never fatal.
func (p *Poster) addReactions(channelId string, messageTs string, reacjis []string) {
	for _, reacji := range reacjis {
		emojiName, known := ValidEmojis.Normalize(reacji)
		if !known {
			p.Logger.Warn().
				Str("reacji", reacji).
				Msg("PostConversation:addReactions#invalid emoji name, skipping")
			continue
		}

		addReactionError := p.SlackClient.AddReaction(emojiName, slack.NewRefToMessage(channelId, messageTs))
		if addReactionError != nil {
			p.Logger.Warn().
				Err(addReactionError).
				Str("emoji", emojiName).
				Msg("PostConversation:addReactions#failed to add reaction, skipping")
		}
	}
}
