package indieauth

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/peterhellberg/link"
	"golang.org/x/net/html"
)

// Endpoints lists the authorization endpoints an identity declares,
// in document order.
type Endpoints struct {
	Authorization []*url.URL
}

// DiscoverAuthEndpoints fetches the identity's URL and collects
// authorization_endpoint declarations from the Link header and from
// <link> tags in the body. Relative URLs are resolved against the
// identity.
func (c *Client) DiscoverAuthEndpoints(ctx context.Context, me string) (Endpoints, error) {
	var ends Endpoints

	meURL, err := url.Parse(me)
	if err != nil {
		return ends, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", meURL.String(), nil)
	if err != nil {
		return ends, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ends, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ends, fmt.Errorf("fetching %s: %s", meURL, resp.Status)
	}

	if auth, ok := link.ParseResponse(resp)["authorization_endpoint"]; ok {
		if endURL, err := meURL.Parse(auth.URI); err == nil {
			ends.Authorization = append(ends.Authorization, endURL)
		}
	}

	mediatype, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediatype != "text/html" {
		return ends, nil
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return ends, nil
	}

	for _, node := range searchAll(root, isLink) {
		for _, rel := range strings.Fields(getAttr(node, "rel")) {
			if rel != "authorization_endpoint" {
				continue
			}
			if endURL, err := meURL.Parse(getAttr(node, "href")); err == nil {
				ends.Authorization = append(ends.Authorization, endURL)
			}
		}
	}

	return ends, nil
}
