// Package indieauth talks to the external parties involved in an
// IndieAuth flow: it discovers the authorization endpoint an identity
// declares, and verifies authorization codes with that endpoint.
//
// Spec: https://www.w3.org/TR/indieauth/
package indieauth

import (
	"net/http"
	"time"
)

// Client performs endpoint discovery and code validation. All
// requests are bounded by the configured timeout; a timeout is a
// verification failure, never fatal.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}
