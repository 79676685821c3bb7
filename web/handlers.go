package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"hawx.me/code/kaku/auth"
)

// statusVouchRequired is returned when a webmention could have been
// accepted had it carried a valid vouch.
const statusVouchRequired = 449

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	me := r.FormValue("me")
	if me == "" {
		http.Error(w, "me parameter required", http.StatusBadRequest)
		return
	}

	redirectURI := s.cfg.BaseURL + "/success"
	fromURI := r.FormValue("from_uri")

	authURL, err := s.auth.StartLogin(r.Context(), me, s.cfg.ClientID, redirectURI, fromURI)
	switch {
	case errors.Is(err, auth.ErrInvalidIdentity):
		http.Error(w, "that does not look like a domain", http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "no authorization endpoint found", http.StatusForbidden)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *Server) success(w http.ResponseWriter, r *http.Request) {
	sess, fromURI, err := s.auth.CompleteLogin(r.Context(), r.FormValue("me"), r.FormValue("code"))
	if err != nil {
		s.saveSession(w, r, auth.Session{})
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	s.saveSession(w, r, sess)

	if fromURI == "" {
		fromURI = "/"
	}
	http.Redirect(w, r, fromURI, http.StatusFound)
}

func (s *Server) authCheck(w http.ResponseWriter, r *http.Request) {
	ok, _ := s.auth.CheckSession(r.Context(), auth.Session{Token: r.FormValue("token")})
	if !ok {
		sess := s.session(r)
		s.auth.ClearSession(r.Context(), &sess)
		s.saveSession(w, r, sess)
		http.Error(w, "invalid", http.StatusForbidden)
		return
	}

	w.Write([]byte("valid"))
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	s.auth.ClearSession(r.Context(), &sess)
	s.saveSession(w, r, sess)

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		me, clientID, scope := s.auth.ValidateBearer(r.Context(), bearerToken(r))
		if me == "" || clientID == "" {
			http.Error(w, "Token is not valid", http.StatusBadRequest)
			return
		}

		params := url.Values{"me": {me}, "client_id": {clientID}}
		if scope != "" {
			params.Set("scope", scope)
		}

		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		w.Write([]byte(params.Encode()))

	case http.MethodPost:
		grant, err := s.auth.IssueAccessToken(r.Context(),
			r.FormValue("code"),
			r.FormValue("me"),
			r.FormValue("client_id"),
			r.FormValue("redirect_uri"),
			r.FormValue("state"))
		if err != nil {
			http.Error(w, "code exchange failed", http.StatusBadRequest)
			return
		}

		params := url.Values{
			"me":           {grant.Me},
			"scope":        {grant.Scope},
			"access_token": {grant.Token},
		}

		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		w.Write([]byte(params.Encode()))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMicropub(w http.ResponseWriter, r *http.Request) {
	me, clientID, scope := s.auth.ValidateBearer(r.Context(), bearerToken(r))
	if me == "" || clientID == "" {
		http.Error(w, "Access Token missing", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "could not parse form", http.StatusBadRequest)
			return
		}

		result, err := s.micropub.Create(r.Context(), me, clientID, scope, r.PostForm)
		if errors.Is(err, auth.ErrUnauthorized) {
			http.Error(w, "Unauthorized", http.StatusForbidden)
			return
		}
		if err != nil {
			http.Error(w, "could not publish", http.StatusInternalServerError)
			return
		}

		if result.Location != "" {
			w.Header().Set("Location", result.Location)
		}
		w.WriteHeader(result.StatusCode)
		w.Write([]byte(result.Body))

	default:
		http.Error(w, "not implemented", http.StatusNotImplemented)
	}
}

func (s *Server) handleWebmention(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	source := r.FormValue("source")
	target := r.FormValue("target")
	vouch := r.FormValue("vouch")

	if !strings.Contains(target, s.cfg.BaseRoute) {
		http.Error(w, "invalid post", http.StatusNotFound)
		return
	}

	if s.verifier.TargetStatus(r.Context(), target) != http.StatusOK {
		http.Error(w, "invalid post", http.StatusNotFound)
		return
	}

	accepted, vouched := s.verifier.Verify(r.Context(), source, target, vouch, s.cfg.VouchRequired)
	if accepted {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	if s.cfg.VouchRequired && !vouched {
		http.Error(w, "Vouch required for webmention", statusVouchRequired)
		return
	}

	http.Error(w, "Webmention is invalid", http.StatusBadRequest)
}
