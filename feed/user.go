package feed

// User is a registered account. TweetIDs holds the ids of the user's tweets
// in the order they were posted.
type User struct {
	Username string
	TweetIDs []int
}

type userRecord struct {
	username string
	password string
	tweetIDs []int
}

func (u *userRecord) snapshot() User {
	ids := make([]int, len(u.tweetIDs))
	copy(ids, u.tweetIDs)
	return User{Username: u.username, TweetIDs: ids}
}
