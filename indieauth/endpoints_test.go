package indieauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hawx.me/code/assert"
)

func testClient() *Client {
	return NewClient(time.Second)
}

func TestDiscoverAuthEndpoints(t *testing.T) {
	homepage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`
<html>
<head>
<link rel="authorization_endpoint" href="http://example.com/hey" />
<link rel="token_endpoint" href="http://example.com/what" />
</head>
</html>
`))
	}))
	defer homepage.Close()

	ends, err := testClient().DiscoverAuthEndpoints(context.Background(), homepage.URL)

	assert.Nil(t, err)
	assert.Len(t, ends.Authorization, 1)
	assert.Equal(t, "http://example.com/hey", ends.Authorization[0].String())
}

func TestDiscoverAuthEndpointsRelative(t *testing.T) {
	homepage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`
<html>
<head>
<link rel="authorization_endpoint" href="/hey" />
</head>
</html>
`))
	}))
	defer homepage.Close()

	ends, err := testClient().DiscoverAuthEndpoints(context.Background(), homepage.URL)

	assert.Nil(t, err)
	assert.Len(t, ends.Authorization, 1)
	assert.Equal(t, homepage.URL+"/hey", ends.Authorization[0].String())
}

func TestDiscoverAuthEndpointsLinkHeader(t *testing.T) {
	homepage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", `<https://idp.example.com/auth>; rel="authorization_endpoint"`)
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("hi"))
	}))
	defer homepage.Close()

	ends, err := testClient().DiscoverAuthEndpoints(context.Background(), homepage.URL)

	assert.Nil(t, err)
	assert.Len(t, ends.Authorization, 1)
	assert.Equal(t, "https://idp.example.com/auth", ends.Authorization[0].String())
}

func TestDiscoverAuthEndpointsNoneDeclared(t *testing.T) {
	homepage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head></head></html>`))
	}))
	defer homepage.Close()

	ends, err := testClient().DiscoverAuthEndpoints(context.Background(), homepage.URL)

	assert.Nil(t, err)
	assert.Len(t, ends.Authorization, 0)
}

func TestDiscoverAuthEndpointsBadResponse(t *testing.T) {
	homepage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer homepage.Close()

	_, err := testClient().DiscoverAuthEndpoints(context.Background(), homepage.URL)

	assert.NotNil(t, err)
}
