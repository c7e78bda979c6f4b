package ResolveIdentities

import (
	"fmt"
	"math/rand"
	"strings"

	"slack-convo-mimic/Models"

	"github.com/slack-go/slack"
)

type IdentityPool = Models.IdentityPool
type Profile = Models.Profile

// UserInfoClient is the one Slack read we need here. *slack.Client
// satisfies it.
type UserInfoClient interface {
	GetUserInfo(user string) (*slack.User, error)
}

// SelectIdentities picks a uniformly random subset of numberOfUsers ids
// from the candidates (shuffle then take). Selection is intentionally
// unseeded; callers only rely on size, distinctness and membership.
func SelectIdentities(candidates []string, numberOfUsers int) (*IdentityPool, error) {
	if numberOfUsers <= 0 {
		return nil, fmt.Errorf("invalid number of users: %d", numberOfUsers)
	}
	if len(candidates) < numberOfUsers {
		return nil, &Models.InsufficientIdentitiesError{
			Requested: numberOfUsers,
			Available: len(candidates),
		}
	}

	shuffled := make([]string, len(candidates))
	copy(shuffled, candidates)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return &IdentityPool{
		All:      candidates,
		Selected: shuffled[:numberOfUsers],
	}, nil
}

// NormalizeAuthorToken strips whatever mention decoration the model used
// around an author id: <@U123>, <@U123|display>, or a bare leading @.
// Lookups always compare the normalized form, never the raw string.
func NormalizeAuthorToken(token string) string {
	author := strings.TrimSpace(token)
	if strings.HasPrefix(author, "<@") && strings.HasSuffix(author, ">") {
		author = strings.TrimSuffix(strings.TrimPrefix(author, "<@"), ">")
		// mention syntax may carry a |label suffix after the id
		if pipe := strings.Index(author, "|"); pipe >= 0 {
			author = author[:pipe]
		}
	}
	author = strings.TrimPrefix(author, "@")
	return author
}

// LookupAuthor resolves an author token against the pool's resolvable
// set. A miss returns ok=false; the caller decides whether that is fatal
// for the run or just for the one message.
func LookupAuthor(pool *IdentityPool, token string) (string, bool) {
	author := NormalizeAuthorToken(token)
	for _, userId := range pool.Resolvable() {
		if userId == author {
			return userId, true
		}
	}
	return "", false
}

// FetchProfile turns a user id into the display name and avatar used to
// impersonate that user when posting.
func FetchProfile(slackClient UserInfoClient, userId string) (Profile, error) {
	userInfo, getUserInfoError := slackClient.GetUserInfo(userId)
	if getUserInfoError != nil {
		return Profile{}, fmt.Errorf("failed to fetch user info for user id %s: %w", userId, getUserInfoError)
	}

	return Profile{
		Username: userInfo.Profile.RealName,
		IconUrl:  userInfo.Profile.Image512,
	}, nil
}
