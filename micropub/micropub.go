// Package micropub turns an authorized Micropub request into an entry
// for the site's publisher. It does not implement the Micropub data
// model; what publishing an entry means is up to the Publisher.
package micropub

import (
	"context"
	"net/url"

	"pkt.systems/pslog"

	"hawx.me/code/kaku/auth"
)

// Entry is the normalized record handed to the publisher.
type Entry map[string]string

// Result is whatever the publisher decided, passed back to the
// boundary unchanged.
type Result struct {
	StatusCode int
	Location   string
	Body       string
}

// Publisher writes an entry to the site.
type Publisher interface {
	Publish(ctx context.Context, entry Entry) (Result, error)
}

// knownFields are lifted into the entry explicitly; anything else the
// client sent is passed through verbatim.
var knownFields = []string{
	"h", "name", "summary", "content", "published", "updated",
	"category", "slug", "location", "syndication", "syndicate-to",
	"in-reply-to", "repost-of", "like-of",
}

// Normalizer assembles entries for a single site. This service only
// publishes for its owner: identities on any other domain are turned
// away.
type Normalizer struct {
	ourDomain string
	baseURL   string
	baseRoute string
	publisher Publisher
	logger    pslog.Logger
}

func NewNormalizer(ourDomain, baseURL, baseRoute string, publisher Publisher, logger pslog.Logger) *Normalizer {
	if logger == nil {
		logger = pslog.NoopLogger()
	}

	return &Normalizer{
		ourDomain: ourDomain,
		baseURL:   baseURL,
		baseRoute: baseRoute,
		publisher: publisher,
		logger:    logger,
	}
}

// Create builds an entry from the validated token details and the
// form the client posted, and forwards it to the publisher. It fails
// with ErrUnauthorized unless the identity is on the site's own
// domain.
func (n *Normalizer) Create(ctx context.Context, me, clientID, scope string, form url.Values) (Result, error) {
	if auth.DomainOf(me) != n.ourDomain {
		n.logger.Info("publish refused", "me", me, "clientID", clientID)
		return Result{}, auth.ErrUnauthorized
	}

	entry := Entry{
		"event":     "create",
		"domain":    auth.DomainOf(me),
		"baseurl":   n.baseURL,
		"baseroute": n.baseRoute,
		"app":       clientID,
		"scope":     scope,
	}

	for _, key := range knownFields {
		entry[key] = form.Get(key)
	}
	for key := range form {
		if _, ok := entry[key]; !ok {
			entry[key] = form.Get(key)
		}
	}

	n.logger.Info("publishing entry", "domain", entry["domain"], "app", clientID, "kind", entry["h"])

	return n.publisher.Publish(ctx, entry)
}
