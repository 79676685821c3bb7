// Package web exposes kaku's HTTP endpoints. It owns the cookie
// mechanics and status codes; every decision that matters is made by
// the auth, webmention, and micropub packages.
package web

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"pkt.systems/pslog"

	"hawx.me/code/kaku/auth"
	"hawx.me/code/kaku/config"
	"hawx.me/code/kaku/micropub"
	"hawx.me/code/kaku/webmention"
)

const cookieName = "kaku"

// Server holds the wired-up service components behind the routes.
type Server struct {
	cfg      config.Config
	auth     *auth.Service
	verifier *webmention.Verifier
	micropub *micropub.Normalizer
	cookies  sessions.Store
	logger   pslog.Logger
}

func New(cfg config.Config, authService *auth.Service, verifier *webmention.Verifier, normalizer *micropub.Normalizer, logger pslog.Logger) *Server {
	if logger == nil {
		logger = pslog.NoopLogger()
	}

	return &Server{
		cfg:      cfg,
		auth:     authService,
		verifier: verifier,
		micropub: normalizer,
		cookies:  sessions.NewCookieStore([]byte(cfg.Secret)),
		logger:   logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", s.login)
	mux.HandleFunc("/success", s.success)
	mux.HandleFunc("/auth", s.authCheck)
	mux.HandleFunc("/logout", s.logout)
	mux.HandleFunc("/token", s.token)
	mux.HandleFunc("/micropub", s.handleMicropub)
	mux.HandleFunc("/webmention", s.handleWebmention)
	return mux
}

func (s *Server) session(r *http.Request) auth.Session {
	cookie, _ := s.cookies.Get(r, cookieName)

	token, _ := cookie.Values["token"].(string)
	scope, _ := cookie.Values["scope"].(string)
	me, _ := cookie.Values["me"].(string)

	return auth.Session{Token: token, Scope: scope, Me: me}
}

func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, sess auth.Session) {
	cookie, _ := s.cookies.Get(r, cookieName)
	cookie.Values["token"] = sess.Token
	cookie.Values["scope"] = sess.Scope
	cookie.Values["me"] = sess.Me
	cookie.Save(r, w)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}
