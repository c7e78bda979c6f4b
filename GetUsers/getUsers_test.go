package GetUsers

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemberClient struct {
	pages      [][]string
	pageIndex  int
	bots       map[string]bool
	infoErrors map[string]error
	membersErr error
}

func (f *fakeMemberClient) GetUsersInConversation(params *slack.GetUsersInConversationParameters) ([]string, string, error) {
	if f.membersErr != nil {
		return nil, "", f.membersErr
	}
	page := f.pages[f.pageIndex]
	f.pageIndex++
	nextCursor := ""
	if f.pageIndex < len(f.pages) {
		nextCursor = "cursor"
	}
	return page, nextCursor, nil
}

func (f *fakeMemberClient) GetUserInfo(user string) (*slack.User, error) {
	if infoError, exists := f.infoErrors[user]; exists {
		return nil, infoError
	}
	return &slack.User{ID: user, IsBot: f.bots[user]}, nil
}

func TestGetChannelMembersFiltersBots(t *testing.T) {
	fake := &fakeMemberClient{
		pages: [][]string{{"U1", "B1", "U2"}},
		bots:  map[string]bool{"B1": true},
	}

	memberIds, getMembersError := GetChannelMembers(fake, "C123", zerolog.Nop())
	require.NoError(t, getMembersError)
	assert.Equal(t, []string{"U1", "U2"}, memberIds)
}

func TestGetChannelMembersPaginates(t *testing.T) {
	fake := &fakeMemberClient{
		pages: [][]string{{"U1", "U2"}, {"U3"}},
		bots:  map[string]bool{},
	}

	memberIds, getMembersError := GetChannelMembers(fake, "C123", zerolog.Nop())
	require.NoError(t, getMembersError)
	assert.Equal(t, []string{"U1", "U2", "U3"}, memberIds)
}

func TestGetChannelMembersSkipsUnfetchableUsers(t *testing.T) {
	fake := &fakeMemberClient{
		pages:      [][]string{{"U1", "U2"}},
		bots:       map[string]bool{},
		infoErrors: map[string]error{"U2": errors.New("user_not_found")},
	}

	memberIds, getMembersError := GetChannelMembers(fake, "C123", zerolog.Nop())
	require.NoError(t, getMembersError)
	assert.Equal(t, []string{"U1"}, memberIds)
}

func TestGetChannelMembersFetchFailure(t *testing.T) {
	fake := &fakeMemberClient{membersErr: errors.New("channel_not_found")}

	_, getMembersError := GetChannelMembers(fake, "C404", zerolog.Nop())
	require.Error(t, getMembersError)
}
