// Package webmention verifies that a claimed source/target
// relationship actually holds: the source document must link to the
// target, and when a vouch is demanded, the vouch document must link
// to the source's domain.
//
// Spec: https://www.w3.org/TR/webmention/
package webmention

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html"

	"pkt.systems/pslog"
)

// Verifier fetches and checks webmention sources. All requests are
// bounded by the configured timeout; a timeout counts as a failed
// verification.
type Verifier struct {
	http   *http.Client
	logger pslog.Logger
}

func New(timeout time.Duration, logger pslog.Logger) *Verifier {
	if logger == nil {
		logger = pslog.NoopLogger()
	}

	return &Verifier{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// TargetStatus reports the status code of a HEAD request for target.
// Any failure to get an answer reads as 404.
func (v *Verifier) TargetStatus(ctx context.Context, target string) int {
	req, err := http.NewRequestWithContext(ctx, "HEAD", target, nil)
	if err != nil {
		return http.StatusNotFound
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return http.StatusNotFound
	}
	resp.Body.Close()

	return resp.StatusCode
}

// Verify fetches source and decides whether its mention of target is
// acceptable. The returned vouched flag reports whether a valid vouch
// was established, independent of acceptance, so the caller can log
// or moderate on it either way.
//
// A vouch can only gate acceptance, never grant it: when the source
// does not reference the target the mention is rejected no matter
// what the vouch says.
func (v *Verifier) Verify(ctx context.Context, source, target, vouch string, vouchRequired bool) (accepted, vouched bool) {
	if vouchRequired && vouch != "" {
		vouched = v.vouchConfirms(ctx, vouch, source)
	}

	links, err := v.pageLinks(ctx, source)
	if err != nil {
		v.logger.Info("webmention source unreachable", "source", source, "error", err)
		return false, vouched
	}

	referenced := false
	for _, href := range links {
		if href == target {
			referenced = true
			break
		}
	}
	if !referenced {
		v.logger.Info("webmention target not referenced", "source", source, "target", target)
		return false, vouched
	}

	accepted = !vouchRequired || vouched
	v.logger.Info("webmention verified", "source", source, "target", target, "accepted", accepted, "vouched", vouched)

	return accepted, vouched
}

// vouchConfirms fetches the vouch document and checks that it links
// to the source's domain, attesting the source is vouched for.
func (v *Verifier) vouchConfirms(ctx context.Context, vouch, source string) bool {
	sourceURL, err := url.Parse(source)
	if err != nil || sourceURL.Host == "" {
		return false
	}

	links, err := v.pageLinks(ctx, vouch)
	if err != nil {
		v.logger.Info("vouch unreachable", "vouch", vouch, "error", err)
		return false
	}

	for _, href := range links {
		if hrefURL, err := url.Parse(href); err == nil && hrefURL.Host == sourceURL.Host {
			return true
		}
	}

	return false
}

// pageLinks fetches a document and returns the href of every a, link,
// and area element, resolved against the document's URL.
func (v *Verifier) pageLinks(ctx context.Context, page string) ([]string, error) {
	pageURL, err := url.Parse(page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: %s", page, resp.Status)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	var links []string
	for _, node := range searchAll(root, isAnchor) {
		href := getAttr(node, "href")
		if href == "" {
			continue
		}
		if hrefURL, err := pageURL.Parse(href); err == nil {
			links = append(links, hrefURL.String())
		}
	}

	return links, nil
}

func searchAll(node *html.Node, pred func(*html.Node) bool) (results []*html.Node) {
	if pred(node) {
		results = append(results, node)
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		results = append(results, searchAll(child, pred)...)
	}

	return
}

func isAnchor(node *html.Node) bool {
	if node.Type != html.ElementNode {
		return false
	}

	switch node.Data {
	case "a", "link", "area":
		return true
	}
	return false
}

func getAttr(node *html.Node, attrName string) string {
	for _, attr := range node.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}

	return ""
}
