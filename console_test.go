package main

import (
	"bytes"
	"strings"
	"testing"

	"minitweet/feed"
)

// runConsole feeds the given lines to a console over a fresh store and
// returns everything it printed.
func runConsole(t *testing.T, f feed.Feed, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	if err := newConsole(f, in, &out, discardLogger()).run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestConsoleRegisterAndLogin(t *testing.T) {
	out := runConsole(t, feed.NewStore(),
		"1", "alice", "pw1",
		"1", "alice", "other",
		"2", "alice", "wrong",
		"2", "alice", "pw1",
		"7",
		"0",
	)

	for _, want := range []string{
		"Registered successfully.",
		"Username already exists.",
		"Invalid credentials.",
		"Login successful.",
		"Hello, alice!",
		"Exiting...",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestConsoleAliceAndBob(t *testing.T) {
	f := feed.NewStore()
	out := runConsole(t, f,
		"1", "alice", "pw1",
		"1", "bob", "pw2",
		"2", "alice", "pw1",
		"2",
		"1", "hello",
		"7",
		"2", "bob", "pw2",
		"1", "hi",
		"4", "1",
		"4", "1",
		"4", "42",
		"3",
		"5", "1",
		"6",
		"7",
		"0",
	)

	for _, want := range []string{
		"You have no tweets.",
		"Tweet posted!",
		"Liked!",
		"Tweet not found.",
		"[1] alice: hello ❤️ 2",
		"[2] bob: hi ❤️ 0",
		"Top 1 recent tweets:\n[2] bob: hi ❤️ 0\n",
		"Tweet count per user:\nalice: 1\nbob: 1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestConsoleEmptyFeeds(t *testing.T) {
	out := runConsole(t, feed.NewStore(),
		"1", "alice", "pw",
		"2", "alice", "pw",
		"3",
		"5", "0",
		"6",
	)

	if !strings.Contains(out, "No tweets yet.") {
		t.Error("expected empty global feed message")
	}
	if !strings.Contains(out, "Top 0 recent tweets:") {
		t.Error("expected top heading for n=0")
	}
	if !strings.Contains(out, "alice: 0") {
		t.Error("expected zero count for alice")
	}
}

func TestConsoleBadInput(t *testing.T) {
	out := runConsole(t, feed.NewStore(),
		"abc",
		"9",
		"1", "alice", "pw",
		"2", "alice", "pw",
		"8",
		"4", "one",
		"5", "many",
	)

	if n := strings.Count(out, "Invalid choice!"); n != 3 {
		t.Errorf("got %d invalid choice messages, want 3", n)
	}
	if !strings.Contains(out, "Tweet not found.") {
		t.Error("expected a non-numeric id to be reported as not found")
	}
	if !strings.Contains(out, "Invalid number.") {
		t.Error("expected a non-numeric N to be rejected")
	}
}

func TestConsoleStopsAtEndOfInput(t *testing.T) {
	out := runConsole(t, feed.NewStore(), "1", "alice")
	if strings.Contains(out, "Registered successfully.") {
		t.Error("registration should not complete without a password")
	}
	if strings.Count(out, "==== Twitter Console App  ====") != 1 {
		t.Errorf("expected the menu once, got:\n%s", out)
	}
}

func TestConsoleAcceptsLongTweets(t *testing.T) {
	f := feed.NewStore()
	long := strings.Repeat("x", 70000)
	out := runConsole(t, f,
		"1", "alice", "pw",
		"2", "alice", "pw",
		"1", long,
		"7",
		"0",
	)

	if !strings.Contains(out, "Tweet posted!") {
		t.Error("expected the long tweet to be posted")
	}
	if !strings.Contains(out, "Exiting...") {
		t.Error("expected the menu loop to keep running after a long line")
	}
	tweets, err := f.TweetsByUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(tweets) != 1 || tweets[0].Message != long {
		t.Errorf("got %d tweets, want the 70000 byte message stored intact", len(tweets))
	}
}

func TestConsoleLastLineWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("1\nalice\npw\n0")
	if err := newConsole(feed.NewStore(), in, &out, discardLogger()).run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Exiting...") {
		t.Error("expected a final unterminated line to be read")
	}
}
