package auth

import (
	"context"
	"fmt"
)

// Grant is the outcome of a successful code exchange.
type Grant struct {
	Me    string
	Scope string
	Token string
}

// IssueAccessToken exchanges an authorization code for a long-lived
// access token on behalf of a third-party client. The code is
// verified against the authorization endpoint discovered for the
// identity, the same endpoint a browser login would use.
//
// Tokens are deduplicated per (identity, client, scope): exchanging
// again for the same triple returns the existing token. Access tokens
// carry no TTL and live until revoked.
func (s *Service) IssueAccessToken(ctx context.Context, code, claimed, clientID, redirectURI, state string) (Grant, error) {
	me, err := NormalizeMe(claimed)
	if err != nil {
		return Grant{}, err
	}

	ends, err := s.resolver.DiscoverAuthEndpoints(ctx, me)
	if err != nil || len(ends.Authorization) == 0 {
		s.logger.Info("no authorization endpoint", "me", me, "error", err)
		return Grant{}, ErrNoAuthEndpoint
	}

	endpoint := *ends.Authorization[0]
	endpoint.RawQuery = ""
	endpoint.Fragment = ""

	resp, err := s.validator.ValidateAuthCode(ctx, code, clientID, redirectURI, endpoint.String(), state)
	if err != nil || !resp.OK {
		s.logger.Info("token exchange rejected", "me", me, "clientID", clientID, "hadCode", code != "", "error", err)
		return Grant{}, ErrAuthenticationRejected
	}

	if resp.Scope == "" {
		return Grant{}, ErrMissingScope
	}

	key := appKey(me, clientID, resp.Scope)

	token, ok, _ := s.store.Get(ctx, key)
	if !ok {
		token = newToken()
		if err := s.store.Set(ctx, key, token); err != nil {
			return Grant{}, fmt.Errorf("storing access token: %w", err)
		}
		if err := s.store.Set(ctx, tokenKey(token), key); err != nil {
			s.store.Delete(ctx, key)
			return Grant{}, fmt.Errorf("indexing access token: %w", err)
		}
	}

	s.logger.Info("access token issued", "me", me, "clientID", clientID, "scope", resp.Scope, "reused", ok)

	return Grant{Me: me, Scope: resp.Scope, Token: token}, nil
}
