// Package feed holds users and their tweets and answers the feed queries:
// per-user lists, the global list, the most recent tweets and tweet counts.
package feed

import "time"

// Feed is the set of operations the shells drive.
type Feed interface {
	Register(username, password string) (User, error)
	Authenticate(username, password string) (User, error)
	PostTweet(username, message string) (Tweet, error)
	LikeByID(id int) error
	TweetsByUser(username string) ([]Tweet, error)
	AllTweets() ([]Tweet, error)
	TopRecent(n int) ([]Tweet, error)
	TweetCountByUser() (map[string]int, error)
}

var (
	_ Feed = (*Store)(nil)
	_ Feed = (*SQLStore)(nil)
)

type options struct {
	now   func() time.Time
	creds Credentials
}

// Option configures a Store or SQLStore.
type Option func(*options)

// WithClock replaces time.Now as the source of tweet timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithCredentials sets how passwords are stored and compared.
// The default is PlainCredentials.
func WithCredentials(c Credentials) Option {
	return func(o *options) {
		o.creds = c
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, creds: PlainCredentials{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
