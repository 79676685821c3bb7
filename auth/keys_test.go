package auth

import (
	"testing"

	"hawx.me/code/assert"
)

func TestAppKeyRoundTrip(t *testing.T) {
	key := appKey("https://example.com/", "https://app.example/", "post media")

	me, clientID, scope, ok := parseAppKey(key)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/", me)
	assert.Equal(t, "https://app.example/", clientID)
	assert.Equal(t, "post media", scope)
}

func TestAppKeySeparatorCannotBeForged(t *testing.T) {
	// a ':' inside a part must not shift the field boundaries
	key := appKey("https://example.com:8080/", "https://app.example/", "post")

	me, clientID, scope, ok := parseAppKey(key)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com:8080/", me)
	assert.Equal(t, "https://app.example/", clientID)
	assert.Equal(t, "post", scope)
}

func TestAppKeyDistinctTriplesDistinctKeys(t *testing.T) {
	a := appKey("https://example.com/", "https://app.example/", "post")
	b := appKey("https://example.com/", "https://app.example/", "media")

	assert.NotEqual(t, a, b)
}

func TestParseAppKeyRejectsOtherKeys(t *testing.T) {
	_, _, _, ok := parseAppKey("login-https://example.com/")
	assert.False(t, ok)

	_, _, _, ok = parseAppKey("app-onlyonepart")
	assert.False(t, ok)
}
