package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/nikolalohinski/gonja/v2"
	"github.com/nikolalohinski/gonja/v2/exec"

	"minitweet/feed"
)

const sessionName = "session"

// --- Session helpers ---

func newSessionStore(secret string) *sessions.CookieStore {
	s := sessions.NewCookieStore([]byte(secret))
	s.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return s
}

// currentUser returns the logged in username, if any.
func (s *server) currentUser(r *http.Request) (string, bool) {
	session, _ := s.sessions.Get(r, sessionName)
	username, ok := session.Values["username"].(string)
	return username, ok
}

func (s *server) setCurrentUser(w http.ResponseWriter, r *http.Request, username string) {
	session, _ := s.sessions.Get(r, sessionName)
	if username == "" {
		delete(session.Values, "username")
	} else {
		session.Values["username"] = username
	}
	if err := session.Save(r, w); err != nil {
		s.logger.Warn("failed to save session", "error", err)
	}
}

func (s *server) addFlash(w http.ResponseWriter, r *http.Request, message string) {
	session, _ := s.sessions.Get(r, sessionName)
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		s.logger.Warn("failed to save flash", "error", err)
	}
}

func (s *server) flashes(w http.ResponseWriter, r *http.Request) []string {
	session, _ := s.sessions.Get(r, sessionName)
	out := []string{}
	for _, f := range session.Flashes() {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	if err := session.Save(r, w); err != nil {
		s.logger.Warn("failed to save session", "error", err)
	}
	return out
}

// --- Template helpers ---

func datetimeformat(t time.Time) string {
	return t.Format("2006-01-02 @ 15:04")
}

func tweetViews(tweets []feed.Tweet) []map[string]any {
	views := make([]map[string]any, len(tweets))
	for i, t := range tweets {
		views[i] = map[string]any{
			"id":      t.ID,
			"author":  t.PostedBy,
			"message": t.Message,
			"likes":   t.Likes,
			"posted":  datetimeformat(t.Timestamp),
		}
	}
	return views
}

func parsePages() (map[string]*exec.Template, error) {
	pages := make(map[string]*exec.Template, len(pageSources))
	for name, body := range pageSources {
		tpl, err := gonja.FromString(layoutHead + body + layoutFoot)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return pages, nil
}

// render fills in the layout fields, then writes the page in one go so
// session cookies are set before the body.
func (s *server) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	tpl, ok := s.pages[page]
	if !ok {
		s.logger.Error("unknown page", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	username, loggedIn := s.currentUser(r)
	data["logged_in"] = loggedIn
	data["current_user"] = username
	data["flashes"] = s.flashes(w, r)

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, exec.NewContext(data)); err != nil {
		s.logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// --- Middleware ---

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests tags every request with an id and logs it once served.
func logRequests(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set("X-Request-ID", id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			logger.Info("request",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start))
		})
	}
}
