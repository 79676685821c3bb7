package auth

import (
	"net/url"
	"strings"
)

// Store key layout:
//
//	login-<me>                      hash holding the pending login
//	token-<token>                   the key of the record backing token
//	app-<me>:<client_id>:<scope>    access token for that triple
//
// The app key parts are query-escaped before joining, so a ':' or '-'
// inside a URL or scope can never be confused with the separator.

const (
	loginPrefix = "login-"
	tokenPrefix = "token-"
	appPrefix   = "app-"
)

func loginKey(me string) string {
	return loginPrefix + me
}

func meFromLoginKey(key string) string {
	return strings.TrimPrefix(key, loginPrefix)
}

func tokenKey(token string) string {
	return tokenPrefix + token
}

func appKey(me, clientID, scope string) string {
	parts := []string{
		url.QueryEscape(me),
		url.QueryEscape(clientID),
		url.QueryEscape(scope),
	}
	return appPrefix + strings.Join(parts, ":")
}

func parseAppKey(key string) (me, clientID, scope string, ok bool) {
	if !strings.HasPrefix(key, appPrefix) {
		return "", "", "", false
	}

	parts := strings.Split(strings.TrimPrefix(key, appPrefix), ":")
	if len(parts) != 3 {
		return "", "", "", false
	}

	var err error
	if me, err = url.QueryUnescape(parts[0]); err != nil {
		return "", "", "", false
	}
	if clientID, err = url.QueryUnescape(parts[1]); err != nil {
		return "", "", "", false
	}
	if scope, err = url.QueryUnescape(parts[2]); err != nil {
		return "", "", "", false
	}

	return me, clientID, scope, true
}
