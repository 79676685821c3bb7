package auth

import (
	"context"
	"testing"

	"hawx.me/code/assert"

	"hawx.me/code/kaku/indieauth"
	"hawx.me/code/kaku/store"
)

func TestIssueAccessToken(t *testing.T) {
	ctx := context.Background()
	validator := &fakeValidator{resp: indieauth.Response{OK: true, Scope: "post"}}
	svc := newTestService(store.NewMemory(), validator)

	grant, err := svc.IssueAccessToken(ctx, "abc123", "https://example.com/",
		"https://app.example/", "https://app.example/callback", "xyz")

	assert.Nil(t, err)
	assert.Equal(t, "https://example.com/", grant.Me)
	assert.Equal(t, "post", grant.Scope)
	assert.NotEqual(t, "", grant.Token)

	// the code was checked against the identity's own endpoint
	assert.Equal(t, "https://idp.example.com/auth", validator.gotEndpoint)
	assert.Equal(t, "abc123", validator.gotCode)
	assert.Equal(t, "https://app.example/", validator.gotClientID)
	assert.Equal(t, "xyz", validator.gotState)
}

func TestIssueAccessTokenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(store.NewMemory(), &fakeValidator{resp: indieauth.Response{OK: true, Scope: "post"}})

	first, err := svc.IssueAccessToken(ctx, "abc123", "https://example.com/",
		"https://app.example/", "https://app.example/callback", "")
	assert.Nil(t, err)

	second, err := svc.IssueAccessToken(ctx, "abc123", "https://example.com/",
		"https://app.example/", "https://app.example/callback", "")
	assert.Nil(t, err)

	assert.Equal(t, first.Token, second.Token)
}

func TestIssueAccessTokenDifferentScope(t *testing.T) {
	ctx := context.Background()
	validator := &fakeValidator{resp: indieauth.Response{OK: true, Scope: "post"}}
	svc := newTestService(store.NewMemory(), validator)

	first, err := svc.IssueAccessToken(ctx, "abc123", "https://example.com/",
		"https://app.example/", "https://app.example/callback", "")
	assert.Nil(t, err)

	validator.resp = indieauth.Response{OK: true, Scope: "media"}

	second, err := svc.IssueAccessToken(ctx, "abc123", "https://example.com/",
		"https://app.example/", "https://app.example/callback", "")
	assert.Nil(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

func TestIssueAccessTokenMissingScope(t *testing.T) {
	svc := newTestService(store.NewMemory(), &fakeValidator{resp: indieauth.Response{OK: true}})

	_, err := svc.IssueAccessToken(context.Background(), "abc123", "https://example.com/",
		"https://app.example/", "https://app.example/callback", "")

	assert.Equal(t, ErrMissingScope, err)
}

func TestIssueAccessTokenRejected(t *testing.T) {
	svc := newTestService(store.NewMemory(), &fakeValidator{resp: indieauth.Response{OK: false}})

	_, err := svc.IssueAccessToken(context.Background(), "abc123", "https://example.com/",
		"https://app.example/", "https://app.example/callback", "")

	assert.Equal(t, ErrAuthenticationRejected, err)
}

func TestValidateBearerAccessToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(store.NewMemory(), &fakeValidator{resp: indieauth.Response{OK: true, Scope: "post"}})

	grant, err := svc.IssueAccessToken(ctx, "abc123", "https://example.com/",
		"https://app.example/", "https://app.example/callback", "")
	assert.Nil(t, err)

	me, clientID, scope := svc.ValidateBearer(ctx, grant.Token)
	assert.Equal(t, "https://example.com/", me)
	assert.Equal(t, "https://app.example/", clientID)
	assert.Equal(t, "post", scope)
}
