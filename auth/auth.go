// Package auth implements the IndieAuth login state machine and the
// token lifecycle around it.
//
// A browser login moves through a short-lived pending record: the
// user claims an identity, is redirected to the authorization
// endpoint their site declares, and comes back with a code. Once that
// code verifies, a session token is minted and bound to the pending
// record. Third-party clients instead exchange a code for a reusable
// access token, deduplicated per (identity, client, scope).
//
// All state lives in the store; the service itself holds nothing
// mutable. An unreachable store reads as "no record", so every
// operation degrades to an unauthenticated outcome rather than
// failing open.
package auth

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"pkt.systems/pslog"

	"hawx.me/code/kaku/indieauth"
	"hawx.me/code/kaku/store"
)

// Resolver discovers the authorization endpoints an identity
// declares.
type Resolver interface {
	DiscoverAuthEndpoints(ctx context.Context, me string) (indieauth.Endpoints, error)
}

// Validator verifies an authorization code with a remote endpoint.
type Validator interface {
	ValidateAuthCode(ctx context.Context, code, clientID, redirectURI, endpoint, state string) (indieauth.Response, error)
}

// Session is the browser-side view of a completed login. The boundary
// layer keeps it in a cookie; it is only as valid as the token it
// carries.
type Session struct {
	Token string
	Scope string
	Me    string
}

// Service runs login attempts and issues, checks, and revokes the
// tokens that come out of them.
type Service struct {
	store     store.Store
	resolver  Resolver
	validator Validator
	timeout   time.Duration
	logger    pslog.Logger
}

// New creates a Service. The timeout bounds how long a pending login
// may wait for its code before it is treated as never having existed.
func New(s store.Store, r Resolver, v Validator, timeout time.Duration, logger pslog.Logger) *Service {
	if logger == nil {
		logger = pslog.NoopLogger()
	}

	return &Service{
		store:     s,
		resolver:  r,
		validator: v,
		timeout:   timeout,
		logger:    logger,
	}
}

func newToken() string {
	return uuid.NewString()
}

// StartLogin begins a login attempt for the claimed identity and
// returns the URL to redirect the user to. Any earlier pending login
// for the same identity is overwritten, and a token bound to it
// revoked first.
func (s *Service) StartLogin(ctx context.Context, claimed, clientID, redirectURI, fromURI string) (string, error) {
	me, err := NormalizeMe(claimed)
	if err != nil {
		return "", err
	}

	ends, err := s.resolver.DiscoverAuthEndpoints(ctx, me)
	if err != nil || len(ends.Authorization) == 0 {
		s.logger.Info("no authorization endpoint", "me", me, "error", err)
		return "", ErrNoAuthEndpoint
	}
	authURL := ends.Authorization[0]

	redirect := authURL.ResolveReference(&url.URL{
		RawQuery: url.Values{
			"me":            {me},
			"redirect_uri":  {redirectURI},
			"client_id":     {clientID},
			"scope":         {"post"},
			"response_type": {"id"},
		}.Encode(),
	})

	endpoint := *authURL
	endpoint.RawQuery = ""
	endpoint.Fragment = ""

	key := loginKey(me)
	if data, ok, _ := s.store.HashGet(ctx, key); ok && data["token"] != "" {
		if err := s.store.Delete(ctx, tokenKey(data["token"])); err != nil {
			s.logger.Warn("revoking earlier login", "me", me, "error", err)
		}
		s.store.HashDeleteField(ctx, key, "token")
		s.store.HashDeleteField(ctx, key, "code")
	}

	err = s.store.HashSetFields(ctx, key, map[string]string{
		"auth_url":     endpoint.String(),
		"from_uri":     fromURI,
		"redirect_uri": redirectURI,
		"client_id":    clientID,
		"scope":        "post",
	})
	if err != nil {
		s.logger.Warn("storing pending login", "me", me, "error", err)
	} else if err := s.store.Expire(ctx, key, s.timeout); err != nil {
		s.logger.Warn("expiring pending login", "me", me, "error", err)
	}

	s.logger.Info("login started", "me", me, "endpoint", endpoint.String())

	return redirect.String(), nil
}

// CompleteLogin verifies the code the authorization endpoint
// redirected back with. On success it mints a session token, binds it
// to the pending login, and returns the session along with the URI
// the user should end up at.
func (s *Service) CompleteLogin(ctx context.Context, claimed, code string) (Session, string, error) {
	me, err := NormalizeMe(claimed)
	if err != nil {
		return Session{}, "", ErrNoPendingLogin
	}

	key := loginKey(me)
	data, ok, err := s.store.HashGet(ctx, key)
	if err != nil || !ok {
		s.logger.Info("no pending login", "me", me)
		return Session{}, "", ErrNoPendingLogin
	}

	resp, err := s.validator.ValidateAuthCode(ctx, code, data["client_id"], data["redirect_uri"], data["auth_url"], "")
	if err != nil || !resp.OK {
		s.logger.Info("login rejected", "me", me, "endpoint", data["auth_url"], "hadCode", code != "", "error", err)
		if data["token"] != "" {
			s.revoke(ctx, tokenKey(data["token"]))
		}
		return Session{}, "", ErrAuthenticationRejected
	}

	scope := resp.Scope
	if scope == "" {
		scope = data["scope"]
	}

	token := newToken()
	if err := s.store.HashSetFields(ctx, key, map[string]string{"code": code, "token": token}); err != nil {
		s.logger.Warn("binding session token", "me", me, "error", err)
		return Session{}, "", ErrAuthenticationRejected
	}
	s.store.Expire(ctx, key, s.timeout)
	if err := s.store.Set(ctx, tokenKey(token), key); err != nil {
		s.logger.Warn("indexing session token", "me", me, "error", err)
		return Session{}, "", ErrAuthenticationRejected
	}
	s.store.Expire(ctx, tokenKey(token), s.timeout)

	s.logger.Info("login verified", "me", me, "scope", scope)

	return Session{Token: token, Scope: scope, Me: me}, data["from_uri"], nil
}

// CheckSession reports whether the session's token still resolves to
// a record that carries that exact token. A token revoked by a later
// login attempt fails this check even though the cookie survives.
func (s *Service) CheckSession(ctx context.Context, sess Session) (bool, string) {
	if sess.Token == "" {
		return false, ""
	}

	key, ok, err := s.store.Get(ctx, tokenKey(sess.Token))
	if err != nil || !ok {
		return false, ""
	}

	data, ok, err := s.store.HashGet(ctx, key)
	if err != nil || !ok || data["token"] != sess.Token {
		return false, ""
	}

	return true, meFromLoginKey(key)
}

// ClearSession revokes the session's token and empties the session.
// Clearing an already cleared session is a no-op.
func (s *Service) ClearSession(ctx context.Context, sess *Session) {
	if sess.Token != "" {
		s.revoke(ctx, tokenKey(sess.Token))
	}

	sess.Token = ""
	sess.Scope = ""
	sess.Me = ""
}

// revoke deletes a token and the record it points at as one unit.
func (s *Service) revoke(ctx context.Context, tokKey string) {
	key, ok, err := s.store.Get(ctx, tokKey)
	if err != nil {
		s.logger.Warn("revoking token", "error", err)
		return
	}

	if !ok {
		s.store.Delete(ctx, tokKey)
		return
	}

	if err := s.store.DeletePair(ctx, key, tokKey); err != nil {
		s.logger.Warn("revoking token", "error", err)
	}
}

// ValidateBearer resolves a bearer token presented to a resource
// endpoint. An absent, expired, or revoked token comes back as three
// empty strings; that is the normal "unauthorized" outcome, not an
// error.
func (s *Service) ValidateBearer(ctx context.Context, token string) (me, clientID, scope string) {
	if token == "" {
		return "", "", ""
	}

	key, ok, err := s.store.Get(ctx, tokenKey(token))
	if err != nil || !ok {
		return "", "", ""
	}

	if me, clientID, scope, ok := parseAppKey(key); ok {
		s.logger.Info("access token valid", "me", me, "clientID", clientID, "scope", scope)
		return me, clientID, scope
	}

	data, ok, err := s.store.HashGet(ctx, key)
	if err != nil || !ok || data["token"] != token {
		return "", "", ""
	}

	return meFromLoginKey(key), data["client_id"], data["scope"]
}
