package main

import (
	"context"
	"errors"
	"testing"

	"minitweet/feed"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.events = append(p.events, e)
	return p.err
}

func TestPublishingFeed(t *testing.T) {
	pub := &recordingPublisher{}
	f := &publishingFeed{Feed: feed.NewStore(), pub: pub, logger: discardLogger()}

	if _, err := f.Register("alice", "pw"); err != nil {
		t.Fatal(err)
	}
	tw, err := f.PostTweet("alice", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.LikeByID(tw.ID); err != nil {
		t.Fatal(err)
	}

	// Failures publish nothing.
	if _, err := f.PostTweet("ghost", "boo"); !errors.Is(err, feed.ErrUnknownUser) {
		t.Errorf("got %v, want ErrUnknownUser", err)
	}
	if err := f.LikeByID(99); !errors.Is(err, feed.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	if len(pub.events) != 2 {
		t.Fatalf("got %d events, want 2", len(pub.events))
	}
	posted, liked := pub.events[0], pub.events[1]
	if posted.Type != eventTweetPosted || posted.Tweet == nil || posted.Tweet.Message != "hello" {
		t.Errorf("unexpected posted event %+v", posted)
	}
	if liked.Type != eventTweetLiked || liked.TweetID != tw.ID || liked.Tweet != nil {
		t.Errorf("unexpected liked event %+v", liked)
	}
}

func TestPublishingFeedIgnoresPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	f := &publishingFeed{Feed: feed.NewStore(), pub: pub, logger: discardLogger()}

	if _, err := f.Register("alice", "pw"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.PostTweet("alice", "still works"); err != nil {
		t.Errorf("publish failure leaked into PostTweet: %v", err)
	}
	all, _ := f.AllTweets()
	if len(all) != 1 {
		t.Errorf("got %d tweets, want 1", len(all))
	}
}

func TestOpenFeedBackends(t *testing.T) {
	for _, backend := range []string{"memory", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Backend = backend
			cfg.PasswordHashing = "bcrypt"

			f, cleanup, err := openFeed(cfg, discardLogger())
			if err != nil {
				t.Fatal(err)
			}
			defer cleanup()

			if _, err := f.Register("alice", "pw"); err != nil {
				t.Fatal(err)
			}
			if _, err := f.Authenticate("alice", "pw"); err != nil {
				t.Errorf("Authenticate: %v", err)
			}
		})
	}
}
