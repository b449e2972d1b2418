package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"minitweet/feed"
)

// console is the numbered text menu. A nil user means nobody is logged in.
type console struct {
	feed   feed.Feed
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger

	user  *feed.User
	atEOF bool
	err   error
}

func newConsole(f feed.Feed, in io.Reader, out io.Writer, logger *slog.Logger) *console {
	return &console{
		feed:   f,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

// run loops until the user picks Exit or input ends.
func (c *console) run() error {
	for !c.atEOF {
		c.println("\n==== Twitter Console App  ====")

		var choice int
		var ok bool
		if c.user == nil {
			c.println("1. Register")
			c.println("2. Login")
			c.println("0. Exit")
			choice, ok = c.readInt("Choose the number to perform operation : ")
		} else {
			c.println("\nHello, " + c.user.Username + "!")
			c.println("1. Post Tweet")
			c.println("2. View My Tweets")
			c.println("3. View All Tweets")
			c.println("4. Like a Tweet")
			c.println("5. Top N Recent Tweets")
			c.println("6. Tweet Count by Users")
			c.println("7. Logout")
			choice, ok = c.readInt("Choose the operation in twitter app: ")
		}
		if c.atEOF {
			break
		}
		if !ok {
			c.println("Invalid choice!")
			continue
		}

		if c.user == nil {
			switch choice {
			case 1:
				c.register()
			case 2:
				c.login()
			case 0:
				c.println("Exiting...")
				return nil
			default:
				c.println("Invalid choice!")
			}
			continue
		}

		switch choice {
		case 1:
			c.postTweet()
		case 2:
			c.viewMyTweets()
		case 3:
			c.viewAllTweets()
		case 4:
			c.likeTweet()
		case 5:
			c.showTopN()
		case 6:
			c.showTweetCount()
		case 7:
			c.user = nil
		default:
			c.println("Invalid choice!")
		}
	}
	return c.err
}

func (c *console) register() {
	username, ok := c.readLine("Enter username: ")
	if !ok {
		return
	}
	password, ok := c.readLine("Enter password: ")
	if !ok {
		return
	}

	_, err := c.feed.Register(username, password)
	switch {
	case errors.Is(err, feed.ErrDuplicateUsername):
		c.println("Username already exists.")
	case err != nil:
		c.fail("register", err)
	default:
		c.println("Registered successfully.")
	}
}

func (c *console) login() {
	username, ok := c.readLine("Enter username: ")
	if !ok {
		return
	}
	password, ok := c.readLine("Enter password: ")
	if !ok {
		return
	}

	u, err := c.feed.Authenticate(username, password)
	switch {
	case errors.Is(err, feed.ErrInvalidCredentials):
		c.println("Invalid credentials.")
	case err != nil:
		c.fail("login", err)
	default:
		c.user = &u
		c.println("Login successful.")
	}
}

func (c *console) postTweet() {
	content, ok := c.readLine("Enter tweet: ")
	if !ok {
		return
	}
	if _, err := c.feed.PostTweet(c.user.Username, content); err != nil {
		c.fail("post tweet", err)
		return
	}
	c.println("Tweet posted!")
}

func (c *console) viewMyTweets() {
	tweets, err := c.feed.TweetsByUser(c.user.Username)
	if err != nil {
		c.fail("list my tweets", err)
		return
	}
	if len(tweets) == 0 {
		c.println("You have no tweets.")
		return
	}
	c.printTweets(tweets)
}

func (c *console) viewAllTweets() {
	tweets, err := c.feed.AllTweets()
	if err != nil {
		c.fail("list tweets", err)
		return
	}
	if len(tweets) == 0 {
		c.println("No tweets yet.")
		return
	}
	c.printTweets(tweets)
}

func (c *console) likeTweet() {
	id, ok := c.readInt("Enter Tweet ID to like: ")
	if !ok {
		if !c.atEOF {
			c.println("Tweet not found.")
		}
		return
	}
	err := c.feed.LikeByID(id)
	switch {
	case errors.Is(err, feed.ErrNotFound):
		c.println("Tweet not found.")
	case err != nil:
		c.fail("like tweet", err)
	default:
		c.println("Liked!")
	}
}

func (c *console) showTopN() {
	n, ok := c.readInt("Enter N (number of recent tweets): ")
	if !ok {
		if !c.atEOF {
			c.println("Invalid number.")
		}
		return
	}
	tweets, err := c.feed.TopRecent(n)
	if err != nil {
		c.fail("top tweets", err)
		return
	}
	c.println(fmt.Sprintf("Top %d recent tweets:", n))
	c.printTweets(tweets)
}

func (c *console) showTweetCount() {
	counts, err := c.feed.TweetCountByUser()
	if err != nil {
		c.fail("count tweets", err)
		return
	}
	c.println("Tweet count per user:")
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		c.println(fmt.Sprintf("%s: %d", name, counts[name]))
	}
}

// --- IO helpers ---

func (c *console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *console) fail(op string, err error) {
	c.logger.Warn("console operation failed", "op", op, "error", err)
	c.println("Something went wrong, please try again.")
}

func (c *console) printTweets(tweets []feed.Tweet) {
	for _, t := range tweets {
		c.println(t.String())
	}
}

// readLine prompts and returns the next line, however long. ok is false at
// end of input; a final line without a newline is still returned.
func (c *console) readLine(prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		c.atEOF = true
		if !errors.Is(err, io.EOF) {
			c.err = err
		}
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// readInt reads a line holding a single integer.
func (c *console) readInt(prompt string) (int, bool) {
	line, ok := c.readLine(prompt)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, false
	}
	return n, true
}
