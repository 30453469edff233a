package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"nostr-widgets/internal/account"
	"nostr-widgets/internal/auth"
	"nostr-widgets/internal/cache"
	"nostr-widgets/internal/config"
	"nostr-widgets/internal/dom"
	"nostr-widgets/internal/emoji"
	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/people"
	"nostr-widgets/internal/preview"
	"nostr-widgets/internal/relay"
	"nostr-widgets/internal/streams"
	"nostr-widgets/internal/types"
)

// appID suffixes the stream preview's people subscriptions
const appID = "widgets"

// RelaySource is what the widgets need from the relay layer
type RelaySource interface {
	FetchEvents(ctx context.Context, relays []string, subID string, filter types.Filter) ([]types.Event, bool)
	Relays() []string
	Publish(ctx context.Context, relays []string, evt *types.Event) []relay.PublishResult
}

// AppDeps are the collaborators built outside the app
type AppDeps struct {
	Source RelaySource
	Caches *cache.Caches
	// Signer signs metadata updates; nil disables premium apply
	Signer *nostr.Signer
	// Scheduler defers popover listener attachment; defaults to wall-clock time
	Scheduler dom.Scheduler
	// RelayConns samples open relay connections for metrics
	RelayConns func() int
	Now        func() time.Time
}

// App holds the wired services behind the HTTP handlers
type App struct {
	cfg       config.Config
	render    *Renderer
	metrics   *Metrics
	sessions  *auth.Sessions
	csrf      *auth.CSRFManager
	accounts  *account.Service
	people    *people.Service
	streams   *streams.Service
	loader    *preview.Loader
	updater   *people.MetadataUpdater
	catalog   *emoji.Catalog
	popovers  *PopoverRegistry
	limiter   *RateLimiter
	scheduler dom.Scheduler
	now       func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// relayPublisher sends metadata updates to the configured publish relays
type relayPublisher struct {
	source RelaySource
	relays []string
}

func (p relayPublisher) Publish(ctx context.Context, relays []string, evt *types.Event) []relay.PublishResult {
	if len(relays) == 0 {
		relays = p.relays
	}
	return p.source.Publish(ctx, relays, evt)
}

// NewApp wires services from config and deps
func NewApp(cfg config.Config, deps AppDeps) (*App, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		var err error
		if secret, err = auth.RandomSecret(); err != nil {
			return nil, err
		}
		slog.Warn("no secret configured, sessions will not survive a restart")
	}
	sessions, err := auth.NewSessions(secret)
	if err != nil {
		return nil, fmt.Errorf("init sessions: %w", err)
	}
	csrf, err := auth.NewCSRFManager(secret)
	if err != nil {
		return nil, fmt.Errorf("init csrf: %w", err)
	}

	if deps.Scheduler == nil {
		deps.Scheduler = dom.RealScheduler{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	popovers := NewPopoverRegistry(cfg.Fetch.PopoverTTL)
	metrics := NewMetrics(deps.Caches.BackendType, deps.RelayConns, popovers.Count)
	popovers.onEvent = metrics.PopoverEvent

	opts := people.DefaultOptions()
	if cfg.Fetch.BatchWindow > 0 {
		opts.BatchWindow = cfg.Fetch.BatchWindow
	}
	if cfg.Fetch.PeopleTimeout > 0 {
		opts.FetchTimeout = cfg.Fetch.PeopleTimeout
	}
	opts.Stats = metrics
	peopleSvc := people.NewService(deps.Source, deps.Caches.Profiles, opts)
	streamsSvc := streams.NewService(deps.Source, deps.Caches.Streams)

	a := &App{
		cfg:       cfg,
		render:    NewRenderer(),
		metrics:   metrics,
		sessions:  sessions,
		csrf:      csrf,
		accounts:  account.NewService(deps.Caches.Accounts),
		people:    peopleSvc,
		streams:   streamsSvc,
		loader:    &preview.Loader{Streams: streamsSvc, People: peopleSvc, AppID: appID},
		catalog:   emoji.Default(),
		popovers:  popovers,
		limiter:   NewRateLimiter(rate.Limit(eventRatePerSecond), eventRateBurst),
		scheduler: deps.Scheduler,
		now:       deps.Now,
		stopCh:    make(chan struct{}),
	}
	a.updater = people.NewMetadataUpdater(peopleSvc, deps.Signer, relayPublisher{source: deps.Source, relays: cfg.Relays.Publish})

	go a.janitor()
	return a, nil
}

// janitor prunes idle rate limiter buckets
func (a *App) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.limiter.Prune(limiterIdleTTL)
		case <-a.stopCh:
			return
		}
	}
}

// Close stops background loops and unmounts open popovers
func (a *App) Close() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
		a.popovers.Stop()
	})
}

// Routes builds the HTTP handler tree
func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /html/emoji-picker", securityHeaders(a.htmlEmojiPickerHandler))
	mux.HandleFunc("POST /html/emoji-picker/select", a.post(a.htmlEmojiSelectHandler))
	mux.HandleFunc("POST /html/emoji-picker/event", a.post(a.htmlEmojiEventHandler))
	mux.HandleFunc("POST /html/emoji-picker/expand", a.post(a.htmlEmojiExpandHandler))

	mux.HandleFunc("GET /html/stream-preview", securityHeaders(a.htmlStreamPreviewHandler))
	mux.HandleFunc("GET /stream/stream-preview", a.streamPreviewHandler)

	mux.HandleFunc("GET /html/note-actions", securityHeaders(a.htmlNoteActionsHandler))

	mux.HandleFunc("GET /html/premium", securityHeaders(a.htmlPremiumHandler))
	mux.HandleFunc("POST /html/premium/apply", a.post(a.htmlPremiumApplyHandler))

	mux.HandleFunc("GET /html/profile/{npub}", securityHeaders(a.htmlProfileHandler))
	mux.HandleFunc("GET /html/profile/{npub}/live/{d}", securityHeaders(a.htmlLiveHandler))
	mux.HandleFunc("POST /html/account", a.post(a.htmlAccountHandler))

	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", a.metrics.Handler())

	return RequestLoggingMiddleware(a.metrics, mux)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// page builds the common page fields, issuing a session when needed
func (a *App) page(w http.ResponseWriter, r *http.Request, title string) (Page, string) {
	session := a.sessions.Ensure(w, r)
	return Page{Title: title, CSRFToken: a.csrf.GenerateToken(session)}, session
}
