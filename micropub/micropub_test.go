package micropub

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"hawx.me/code/assert"

	"hawx.me/code/kaku/auth"
)

type fakePublisher struct {
	entry  Entry
	result Result
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, entry Entry) (Result, error) {
	f.entry = entry
	return f.result, f.err
}

func newTestNormalizer(publisher *fakePublisher) *Normalizer {
	return NewNormalizer("example.com", "https://example.com", "/blog/", publisher, nil)
}

func TestCreate(t *testing.T) {
	publisher := &fakePublisher{result: Result{StatusCode: http.StatusAccepted, Body: "accepted"}}
	normalizer := newTestNormalizer(publisher)

	form := url.Values{
		"h":       {"entry"},
		"content": {"hello world"},
		"mp-slug": {"hello"},
	}

	result, err := normalizer.Create(context.Background(),
		"https://example.com/", "https://app.example/", "post", form)

	assert.Nil(t, err)
	assert.Equal(t, http.StatusAccepted, result.StatusCode)
	assert.Equal(t, "accepted", result.Body)

	assert.Equal(t, "create", publisher.entry["event"])
	assert.Equal(t, "example.com", publisher.entry["domain"])
	assert.Equal(t, "https://example.com", publisher.entry["baseurl"])
	assert.Equal(t, "/blog/", publisher.entry["baseroute"])
	assert.Equal(t, "https://app.example/", publisher.entry["app"])
	assert.Equal(t, "post", publisher.entry["scope"])

	assert.Equal(t, "entry", publisher.entry["h"])
	assert.Equal(t, "hello world", publisher.entry["content"])

	// unknown fields pass through verbatim
	assert.Equal(t, "hello", publisher.entry["mp-slug"])
}

func TestCreateForWrongDomain(t *testing.T) {
	publisher := &fakePublisher{}
	normalizer := newTestNormalizer(publisher)

	_, err := normalizer.Create(context.Background(),
		"https://intruder.example/", "https://app.example/", "post", url.Values{})

	assert.Equal(t, auth.ErrUnauthorized, err)
	assert.Nil(t, publisher.entry)
}

func TestCreateExtraFieldCannotShadowEntryMetadata(t *testing.T) {
	publisher := &fakePublisher{}
	normalizer := newTestNormalizer(publisher)

	form := url.Values{"event": {"delete"}, "domain": {"intruder.example"}}

	_, err := normalizer.Create(context.Background(),
		"https://example.com/", "https://app.example/", "post", form)

	assert.Nil(t, err)
	assert.Equal(t, "create", publisher.entry["event"])
	assert.Equal(t, "example.com", publisher.entry["domain"])
}
