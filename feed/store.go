package feed

import (
	"slices"
	"sync"
	"time"
)

// Store keeps every user and tweet in process memory.
type Store struct {
	mu     sync.RWMutex
	users  map[string]*userRecord
	tweets []Tweet
	nextID int

	now   func() time.Time
	creds Credentials
}

// NewStore returns an empty store. Tweet ids start at 1.
func NewStore(opts ...Option) *Store {
	o := buildOptions(opts)
	return &Store{
		users:  make(map[string]*userRecord),
		nextID: 1,
		now:    o.now,
		creds:  o.creds,
	}
}

func (s *Store) Register(username, password string) (User, error) {
	sealed, err := s.creds.Seal(password)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return User{}, ErrDuplicateUsername
	}
	u := &userRecord{username: username, password: sealed}
	s.users[username] = u
	return u.snapshot(), nil
}

func (s *Store) Authenticate(username, password string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok || !s.creds.Match(u.password, password) {
		return User{}, ErrInvalidCredentials
	}
	return u.snapshot(), nil
}

func (s *Store) PostTweet(username, message string) (Tweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return Tweet{}, ErrUnknownUser
	}

	ts := s.now()
	if n := len(s.tweets); n > 0 && ts.Before(s.tweets[n-1].Timestamp) {
		ts = s.tweets[n-1].Timestamp
	}
	t := Tweet{
		ID:        s.nextID,
		Message:   message,
		PostedBy:  username,
		Timestamp: ts,
	}
	s.nextID++
	s.tweets = append(s.tweets, t)
	u.tweetIDs = append(u.tweetIDs, t.ID)
	return t, nil
}

func (s *Store) LikeByID(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.tweets, func(t Tweet) bool { return t.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	s.tweets[i].Likes++
	return nil
}

// TweetsByUser returns the user's tweets oldest first. Unknown users have none.
func (s *Store) TweetsByUser(username string) ([]Tweet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return []Tweet{}, nil
	}
	out := make([]Tweet, 0, len(u.tweetIDs))
	for _, id := range u.tweetIDs {
		// ids are handed out from 1 and tweets are never removed.
		out = append(out, s.tweets[id-1])
	}
	return out, nil
}

func (s *Store) AllTweets() ([]Tweet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Tweet, len(s.tweets))
	copy(out, s.tweets)
	return out, nil
}

// TopRecent returns up to n tweets, newest first.
func (s *Store) TopRecent(n int) ([]Tweet, error) {
	if n <= 0 {
		return []Tweet{}, nil
	}

	s.mu.RLock()
	all := make([]Tweet, len(s.tweets))
	copy(all, s.tweets)
	s.mu.RUnlock()

	slices.SortFunc(all, newerThan)
	if n < len(all) {
		all = all[:n]
	}
	return all, nil
}

// TweetCountByUser includes users that never posted.
func (s *Store) TweetCountByUser() (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(s.users))
	for name, u := range s.users {
		counts[name] = len(u.tweetIDs)
	}
	return counts, nil
}
