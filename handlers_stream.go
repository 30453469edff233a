package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"nostr-widgets/internal/nips"
	"nostr-widgets/internal/preview"
	"nostr-widgets/internal/types"
	"nostr-widgets/internal/util"
)

// previewTimeout bounds a full stream → people load
const previewTimeout = 5 * time.Second

// SSE event types
const (
	SSEEventState = "state"
	SSEEventEOSE  = "eose"
)

type streamData struct {
	Page
	ID   string
	SSE  string
	Card preview.Card
}

// streamCardID gives each previewed URL a stable element id
func streamCardID(rawURL string) string {
	return fmt.Sprintf("stream-preview-%016x", xxhash.Sum64String(rawURL))
}

// loadPreview runs the loader to completion and returns the last published state
func (a *App) loadPreview(ctx context.Context, rawURL string, user *types.Profile) preview.State {
	ctx, cancel := context.WithTimeout(ctx, previewTimeout)
	defer cancel()

	last := preview.State{Readiness: preview.StateEmpty, Host: user}
	// Failures are logged by the loader; the card shows whatever loaded
	_ = a.loader.Run(ctx, rawURL, user, func(s preview.State) { last = s })
	return last
}

// htmlStreamPreviewHandler renders the link card for a stream URL. With
// progressive=1 it renders the empty card wired to the SSE endpoint instead.
// GET /html/stream-preview?url=&user=&progressive=
func (a *App) htmlStreamPreviewHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawURL := strings.TrimSpace(q.Get("url"))
	if rawURL == "" {
		util.RespondBadRequest(w, "Missing url parameter")
		return
	}
	page, _ := a.page(w, r, "Live stream")

	data := streamData{Page: page, ID: streamCardID(rawURL)}
	if util.ParseBool(q.Get("progressive")) {
		data.SSE = util.BuildURL("/stream/stream-preview", map[string]string{"url": rawURL, "user": q.Get("user")})
		data.Card = preview.NewCard(preview.State{Readiness: preview.StateEmpty}, a.now())
		renderWidget(w, r, a.render.stream, data, "0")
		return
	}

	user := a.resolveUser(r.Context(), q.Get("user"))
	state := a.loadPreview(r.Context(), rawURL, user)
	data.Card = preview.NewCard(state, a.now())
	if data.Card.Title != "" {
		data.Title = data.Card.Title
	}
	renderWidget(w, r, a.render.stream, data, "30")
}

// streamPreviewHandler streams each loader state as an HTML fragment over SSE
// GET /stream/stream-preview?url=&user=
func (a *App) streamPreviewHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		util.RespondInternalError(w, "SSE not supported")
		return
	}
	q := r.URL.Query()
	rawURL := strings.TrimSpace(q.Get("url"))
	if rawURL == "" {
		util.RespondBadRequest(w, "Missing url parameter")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	a.metrics.SSEOpened()
	defer a.metrics.SSEClosed()

	ctx, cancel := context.WithTimeout(r.Context(), previewTimeout)
	defer cancel()

	log := LoggerFromContext(ctx)
	id := streamCardID(rawURL)
	user := a.resolveUser(ctx, q.Get("user"))

	err := a.loader.Run(ctx, rawURL, user, func(s preview.State) {
		html, err := renderString(a.render.stream, "stream-card", streamData{ID: id, Card: preview.NewCard(s, a.now())})
		if err != nil {
			log.Error("SSE: failed to render stream card", "error", err)
			return
		}
		sendSSEHTML(w, flusher, SSEEventState, html)
	})
	if err != nil {
		log.Debug("SSE: stream preview ended early", "error", err)
	}
	sendSSEHTML(w, flusher, SSEEventEOSE, "")
}

// sendSSEHTML sends an HTML fragment as one SSE event (for HelmJS h-sse).
// Every line of the payload gets its own data field.
func sendSSEHTML(w http.ResponseWriter, flusher http.Flusher, eventType string, html string) {
	fmt.Fprintf(w, "event: %s\n", eventType)
	for _, line := range strings.Split(html, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
	flusher.Flush()
}

// htmlLiveHandler renders the stream card for a stream under its author's profile
// GET /html/profile/{npub}/live/{d}
func (a *App) htmlLiveHandler(w http.ResponseWriter, r *http.Request) {
	pk, err := nips.DecodePubkey(r.PathValue("npub"))
	if err != nil {
		util.RespondBadRequest(w, "Invalid profile identifier")
		return
	}
	d := r.PathValue("d")
	naddr, err := nips.EncodeNAddr(types.KindLiveEvent, pk, d)
	if err != nil {
		util.RespondBadRequest(w, "Invalid stream identifier")
		return
	}

	page, _ := a.page(w, r, "Live stream")
	state := a.loadPreview(r.Context(), naddr, nil)
	if state.Stream == nil {
		util.RespondNotFound(w, "Stream not found")
		return
	}

	card := preview.NewCard(state, a.now())
	if card.Title != "" {
		page.Title = card.Title
	}
	renderWidget(w, r, a.render.stream, streamData{Page: page, ID: streamCardID(naddr), Card: card}, "30")
}
