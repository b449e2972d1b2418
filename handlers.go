package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/nikolalohinski/gonja/v2/exec"

	"minitweet/feed"
)

// server is the web front end over a Feed.
type server struct {
	feed     feed.Feed
	sessions *sessions.CookieStore
	pages    map[string]*exec.Template
	logger   *slog.Logger
	perPage  int
}

func newServer(f feed.Feed, cfg WebConfig, logger *slog.Logger) (*server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &server{
		feed:     f,
		sessions: newSessionStore(cfg.SessionSecret),
		pages:    pages,
		logger:   logger,
		perPage:  cfg.PerPage,
	}, nil
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests(s.logger))

	r.HandleFunc("/", s.timelineHandler).Methods("GET")
	r.HandleFunc("/public", s.publicTimelineHandler).Methods("GET")
	r.HandleFunc("/top", s.topHandler).Methods("GET")
	r.HandleFunc("/counts", s.countsHandler).Methods("GET")
	r.HandleFunc("/add_message", s.addMessageHandler).Methods("POST")
	r.HandleFunc("/tweet/{id:[0-9]+}/like", s.likeHandler).Methods("POST")
	r.HandleFunc("/login", s.loginHandler).Methods("GET", "POST")
	r.HandleFunc("/register", s.registerHandler).Methods("GET", "POST")
	r.HandleFunc("/logout", s.logoutHandler).Methods("GET")
	r.HandleFunc("/user/{username}", s.userTimelineHandler).Methods("GET")
	return r
}

// GET / — the current user's tweets (redirect to /public if not logged in)
func (s *server) timelineHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := s.currentUser(r)
	if !ok {
		http.Redirect(w, r, "/public", http.StatusFound)
		return
	}

	tweets, err := s.feed.TweetsByUser(username)
	if err != nil {
		s.serverError(w, "list user tweets", err)
		return
	}
	s.render(w, r, "timeline", map[string]any{
		"title":    "My Timeline",
		"tweets":   tweetViews(tweets),
		"can_post": true,
	})
}

// GET /public — every tweet in posting order
func (s *server) publicTimelineHandler(w http.ResponseWriter, r *http.Request) {
	tweets, err := s.feed.AllTweets()
	if err != nil {
		s.serverError(w, "list tweets", err)
		return
	}
	s.render(w, r, "timeline", map[string]any{
		"title":    "Public Timeline",
		"tweets":   tweetViews(tweets),
		"can_post": false,
	})
}

// GET /top?n= — the n most recent tweets, newest first
func (s *server) topHandler(w http.ResponseWriter, r *http.Request) {
	n := s.perPage
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "n must be an integer", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	tweets, err := s.feed.TopRecent(n)
	if err != nil {
		s.serverError(w, "top tweets", err)
		return
	}
	s.render(w, r, "timeline", map[string]any{
		"title":    fmt.Sprintf("Top %d recent tweets", n),
		"tweets":   tweetViews(tweets),
		"can_post": false,
	})
}

// GET /counts — tweets per user
func (s *server) countsHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := s.feed.TweetCountByUser()
	if err != nil {
		s.serverError(w, "count tweets", err)
		return
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)
	rows := make([]map[string]any, len(names))
	for i, name := range names {
		rows[i] = map[string]any{"username": name, "count": counts[name]}
	}

	s.render(w, r, "counts", map[string]any{
		"title":  "Tweet count per user",
		"counts": rows,
	})
}

// GET /user/{username} — one user's tweets; unknown users simply have none
func (s *server) userTimelineHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	tweets, err := s.feed.TweetsByUser(username)
	if err != nil {
		s.serverError(w, "list user tweets", err)
		return
	}
	s.render(w, r, "timeline", map[string]any{
		"title":    username + "'s Timeline",
		"tweets":   tweetViews(tweets),
		"can_post": false,
	})
}

// POST /add_message
func (s *server) addMessageHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := s.currentUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	_, err := s.feed.PostTweet(username, r.FormValue("text"))
	switch {
	case errors.Is(err, feed.ErrUnknownUser):
		// The session outlived the account, e.g. across a restart.
		s.setCurrentUser(w, r, "")
		s.addFlash(w, r, "Your session has expired, please sign in again")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	case err != nil:
		s.serverError(w, "post tweet", err)
		return
	}
	s.addFlash(w, r, "Your message was recorded")
	http.Redirect(w, r, "/", http.StatusFound)
}

// POST /tweet/{id}/like
func (s *server) likeHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentUser(r); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	err = s.feed.LikeByID(id)
	switch {
	case errors.Is(err, feed.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		s.serverError(w, "like tweet", err)
		return
	}

	s.addFlash(w, r, fmt.Sprintf("You liked tweet #%d", id))
	http.Redirect(w, r, "/public", http.StatusFound)
}

// GET + POST /login
func (s *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	errorMsg := ""
	username := r.FormValue("username")
	if r.Method == "POST" {
		u, err := s.feed.Authenticate(username, r.FormValue("password"))
		switch {
		case errors.Is(err, feed.ErrInvalidCredentials):
			errorMsg = "Invalid credentials"
		case err != nil:
			s.serverError(w, "authenticate", err)
			return
		default:
			s.setCurrentUser(w, r, u.Username)
			s.addFlash(w, r, "You were logged in")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
	}

	s.render(w, r, "login", map[string]any{
		"title":    "Sign In",
		"error":    errorMsg,
		"username": username,
	})
}

// GET + POST /register
func (s *server) registerHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	errorMsg := ""
	username := r.FormValue("username")
	if r.Method == "POST" {
		password := r.FormValue("password")
		password2 := r.FormValue("password2")

		if username == "" {
			errorMsg = "You have to enter a username"
		} else if password == "" {
			errorMsg = "You have to enter a password"
		} else if password != password2 {
			errorMsg = "The two passwords do not match"
		} else {
			_, err := s.feed.Register(username, password)
			switch {
			case errors.Is(err, feed.ErrDuplicateUsername):
				errorMsg = "The username is already taken"
			case err != nil:
				s.serverError(w, "register", err)
				return
			default:
				s.addFlash(w, r, "You were successfully registered and can login now")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
		}
	}

	s.render(w, r, "register", map[string]any{
		"title":    "Sign Up",
		"error":    errorMsg,
		"username": username,
	})
}

// GET /logout
func (s *server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	s.setCurrentUser(w, r, "")
	s.addFlash(w, r, "You were logged out")
	http.Redirect(w, r, "/public", http.StatusFound)
}

func (s *server) serverError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("feed operation failed", "op", op, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
