// kaku is a small server handling the dynamic parts of an IndieWeb
// site: IndieAuth login and token issuance, Micropub publishing, and
// Webmention receiving.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"pkt.systems/pslog"

	"hawx.me/code/kaku/auth"
	"hawx.me/code/kaku/config"
	"hawx.me/code/kaku/indieauth"
	"hawx.me/code/kaku/micropub"
	"hawx.me/code/kaku/store"
	"hawx.me/code/kaku/web"
	"hawx.me/code/kaku/webmention"
)

// eventQueue is the list published entries are pushed onto, for the
// site generator to consume.
const eventQueue = "kaku-events"

// queuePublisher hands entries to the site by pushing them onto a
// Redis list.
type queuePublisher struct {
	client *redis.Client
}

func (p *queuePublisher) Publish(ctx context.Context, entry micropub.Entry) (micropub.Result, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return micropub.Result{}, err
	}

	if err := p.client.LPush(ctx, eventQueue, data).Err(); err != nil {
		return micropub.Result{}, err
	}

	return micropub.Result{StatusCode: http.StatusAccepted, Body: "accepted"}, nil
}

func main() {
	addr := flag.String("addr", ":5000", "address to listen on")
	flag.Parse()

	logger := pslog.NewStructured(context.Background(), os.Stdout).With("app", "kaku")

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("configuration", "error", err)
		os.Exit(1)
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	ia := indieauth.NewClient(cfg.RequestTimeout)

	authService := auth.New(store.NewRedis(client), ia, ia, cfg.AuthTimeout, logger.With("component", "auth"))
	verifier := webmention.New(cfg.RequestTimeout, logger.With("component", "webmention"))
	normalizer := micropub.NewNormalizer(cfg.OurDomain, cfg.BaseURL, cfg.BaseRoute,
		&queuePublisher{client: client}, logger.With("component", "micropub"))

	server := web.New(cfg, authService, verifier, normalizer, logger.With("component", "web"))

	logger.Info("listening", "addr", *addr, "clientID", cfg.ClientID)
	if err := http.ListenAndServe(*addr, server.Handler()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
