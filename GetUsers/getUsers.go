package GetUsers

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// MemberClient covers the two Slack reads needed to enumerate the human
// members of a channel. *slack.Client satisfies it.
type MemberClient interface {
	GetUsersInConversation(params *slack.GetUsersInConversationParameters) ([]string, string, error)
	GetUserInfo(user string) (*slack.User, error)
}

// GetChannelMembers returns the ids of every non-bot member of the
// channel. Bots and apps are filtered out because playback should only
// ever borrow real user identities.
func GetChannelMembers(slackClient MemberClient, channelId string, logger zerolog.Logger) ([]string, error) {
	var memberIds []string

	params := &slack.GetUsersInConversationParameters{
		ChannelID: channelId,
		Limit:     200,
	}

	for {
		pageMembers, nextCursor, getMembersError := slackClient.GetUsersInConversation(params)
		if getMembersError != nil {
			return nil, fmt.Errorf("failed to fetch members of channel %s: %w", channelId, getMembersError)
		}
		memberIds = append(memberIds, pageMembers...)

		if len(nextCursor) == 0 {
			break
		}
		params.Cursor = nextCursor
	}

	if len(memberIds) == 0 {
		return nil, fmt.Errorf("no members found in channel %s", channelId)
	}

	// filter out bots and apps
	var filteredMembers []string
	for _, memberId := range memberIds {
		userInfo, getUserInfoError := slackClient.GetUserInfo(memberId)
		if getUserInfoError != nil {
			logger.Warn().
				Err(getUserInfoError).
				Str("user_id", memberId).
				Msg("GetUsers:GetChannelMembers#could not fetch user info, skipping member")
			continue
		}
		if userInfo.IsBot {
			continue
		}
		filteredMembers = append(filteredMembers, memberId)
	}

	return filteredMembers, nil
}
