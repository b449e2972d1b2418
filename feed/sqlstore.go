package feed

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS user (
	username TEXT PRIMARY KEY,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tweet (
	tweet_id INTEGER PRIMARY KEY AUTOINCREMENT,
	author   TEXT NOT NULL REFERENCES user(username),
	text     TEXT NOT NULL,
	pub_date INTEGER NOT NULL,
	likes    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS tweet_author ON tweet(author, tweet_id);
`

const tweetColumns = `tweet_id, text, author, pub_date, likes`

// SQLStore keeps users and tweets in a SQLite database, normally ":memory:".
type SQLStore struct {
	db    *sql.DB
	now   func() time.Time
	creds Credentials
}

// OpenSQLStore opens dsn and creates the tables. The pool is capped at one
// connection so an in-memory database is shared by every call.
func OpenSQLStore(dsn string, opts ...Option) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	o := buildOptions(opts)
	return &SQLStore{db: db, now: o.now, creds: o.creds}, nil
}

// Close releases the database. An in-memory database is discarded.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Register(username, password string) (User, error) {
	sealed, err := s.creds.Seal(password)
	if err != nil {
		return User{}, err
	}

	_, err = s.db.Exec("INSERT INTO user (username, password) VALUES (?, ?)", username, sealed)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return User{}, ErrDuplicateUsername
	}
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return User{Username: username, TweetIDs: []int{}}, nil
}

func (s *SQLStore) Authenticate(username, password string) (User, error) {
	var stored string
	err := s.db.QueryRow("SELECT password FROM user WHERE username = ?", username).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("select user: %w", err)
	}
	if !s.creds.Match(stored, password) {
		return User{}, ErrInvalidCredentials
	}

	ids, err := s.tweetIDs(username)
	if err != nil {
		return User{}, err
	}
	return User{Username: username, TweetIDs: ids}, nil
}

func (s *SQLStore) tweetIDs(username string) ([]int, error) {
	rows, err := s.db.Query("SELECT tweet_id FROM tweet WHERE author = ? ORDER BY tweet_id", username)
	if err != nil {
		return nil, fmt.Errorf("select tweet ids: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tweet id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLStore) PostTweet(username, message string) (Tweet, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Tweet{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow("SELECT 1 FROM user WHERE username = ?", username).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return Tweet{}, ErrUnknownUser
	}
	if err != nil {
		return Tweet{}, fmt.Errorf("select user: %w", err)
	}

	var last int64
	if err := tx.QueryRow("SELECT COALESCE(MAX(pub_date), 0) FROM tweet").Scan(&last); err != nil {
		return Tweet{}, fmt.Errorf("select last pub_date: %w", err)
	}
	pubDate := max(s.now().UnixNano(), last)

	res, err := tx.Exec("INSERT INTO tweet (author, text, pub_date) VALUES (?, ?, ?)",
		username, message, pubDate)
	if err != nil {
		return Tweet{}, fmt.Errorf("insert tweet: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Tweet{}, fmt.Errorf("tweet id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Tweet{}, fmt.Errorf("commit: %w", err)
	}

	return Tweet{
		ID:        int(id),
		Message:   message,
		PostedBy:  username,
		Timestamp: time.Unix(0, pubDate),
	}, nil
}

func (s *SQLStore) LikeByID(id int) error {
	res, err := s.db.Exec("UPDATE tweet SET likes = likes + 1 WHERE tweet_id = ?", id)
	if err != nil {
		return fmt.Errorf("update likes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) TweetsByUser(username string) ([]Tweet, error) {
	return s.queryTweets("SELECT "+tweetColumns+" FROM tweet WHERE author = ? ORDER BY tweet_id", username)
}

func (s *SQLStore) AllTweets() ([]Tweet, error) {
	return s.queryTweets("SELECT " + tweetColumns + " FROM tweet ORDER BY tweet_id")
}

func (s *SQLStore) TopRecent(n int) ([]Tweet, error) {
	// LIMIT with a negative value means no limit in SQLite.
	if n <= 0 {
		return []Tweet{}, nil
	}
	return s.queryTweets("SELECT "+tweetColumns+" FROM tweet ORDER BY pub_date DESC, tweet_id DESC LIMIT ?", n)
}

func (s *SQLStore) TweetCountByUser() (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT user.username, COUNT(tweet.tweet_id)
		FROM user LEFT JOIN tweet ON tweet.author = user.username
		GROUP BY user.username`)
	if err != nil {
		return nil, fmt.Errorf("count tweets: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

func (s *SQLStore) queryTweets(query string, args ...any) ([]Tweet, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("select tweets: %w", err)
	}
	defer rows.Close()

	tweets := []Tweet{}
	for rows.Next() {
		var t Tweet
		var pubDate int64
		if err := rows.Scan(&t.ID, &t.Message, &t.PostedBy, &pubDate, &t.Likes); err != nil {
			return nil, fmt.Errorf("scan tweet: %w", err)
		}
		t.Timestamp = time.Unix(0, pubDate)
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}
