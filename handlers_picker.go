package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"nostr-widgets/internal/buttons"
	"nostr-widgets/internal/emoji"
	"nostr-widgets/internal/picker"
	"nostr-widgets/internal/types"
	"nostr-widgets/internal/util"
)

// accountTimeout bounds account reads and writes made from picker callbacks
const accountTimeout = 2 * time.Second

// pickerTab is one filter tab of the picker
type pickerTab struct {
	Label  string
	Icon   string
	Href   string
	Active bool
}

// actionButton is a rendered footer button, optionally swapped out-of-band
type actionButton struct {
	buttons.View
	OOB bool
}

type pickerData struct {
	Page
	View     picker.View
	Tabs     []pickerTab
	Reaction *actionButton
}

// pickerID derives the popover element id from the note it reacts to
func pickerID(target string) string {
	if target == "" {
		return "emoji-picker"
	}
	return "emoji-picker-" + target
}

// openPicker mounts a new popover for the session from the request's options
func (a *App) openPicker(session string, q url.Values) *popover {
	target := q.Get("target")
	if !isHexID(target) {
		target = ""
	}
	compact := util.ParseBool(q.Get("compact"))
	log := slog.Default().With("session", shortSession(session))

	var p *popover
	p = a.popovers.Open(session, target, picker.Options{
		ID:          pickerID(target),
		Compact:     compact,
		Orientation: q.Get("orientation"),
		Catalog:     a.catalog,
		Scheduler:   a.scheduler,
		History: func() []types.EmojiOption {
			ctx, cancel := context.WithTimeout(context.Background(), accountTimeout)
			defer cancel()
			return a.accounts.EmojiHistory(ctx, session)
		},
		OnSelect: func(o types.EmojiOption) {
			ctx, cancel := context.WithTimeout(context.Background(), accountTimeout)
			defer cancel()
			if err := a.accounts.SaveEmoji(ctx, session, o); err != nil {
				log.Warn("failed to save emoji history", "error", err)
			}
			a.metrics.PopoverEvent("select")
		},
		OnClose: func(e picker.CloseEvent) {
			log.Debug("emoji picker dismissed", "key", e.Key, "outside_click", e.Target != nil)
		},
		OnMouseLeave: func() {
			// Compact pickers hover over the note footer and close when the pointer leaves
			if p != nil && p.ctrl.Compact() {
				a.popovers.Close(session)
			}
		},
	})
	return p
}

// htmlEmojiPickerHandler opens the picker, or updates the open one when the request
// carries a term or filter
// GET /html/emoji-picker?filter=&term=&compact=&target=&orientation=
func (a *App) htmlEmojiPickerHandler(w http.ResponseWriter, r *http.Request) {
	page, session := a.page(w, r, "Emoji picker")
	q := r.URL.Query()
	update := q.Has("term") || q.Has("filter")

	p, ok := a.popovers.Get(session)
	if !ok || !update {
		p = a.openPicker(session, q)
	}

	if q.Has("filter") {
		p.ctrl.SetFilter(q.Get("filter"))
	} else if q.Has("term") {
		p.ctrl.SetSearch(q.Get("term"))
	}

	a.renderPicker(w, r, page, p, p.ctrl.View(), nil)
}

// htmlEmojiSelectHandler records a selection and refocuses the search input
// POST /html/emoji-picker/select (emoji)
func (a *App) htmlEmojiSelectHandler(w http.ResponseWriter, r *http.Request) {
	page, session := a.page(w, r, "Emoji picker")
	p, ok := a.popovers.Get(session)
	if !ok {
		util.RespondNotFound(w, "No emoji picker is open")
		return
	}

	opt, ok := a.catalog.Lookup(r.FormValue("emoji"))
	if !ok {
		util.RespondBadRequest(w, "Unknown emoji")
		return
	}
	p.ctrl.Select(opt)

	// The focus pulse resets on the next tick; this response is the one that carries it
	v := p.ctrl.View()
	v.FocusRequested = true

	var reaction *actionButton
	if p.target != "" {
		btn := buttons.Button{Type: buttons.TypeEmoji, NoteID: p.target, Title: "React", Highlighted: true, Emoji: &opt}
		if bv, err := btn.Render(isPhone(r)); err == nil {
			reaction = &actionButton{View: bv, OOB: true}
		}
	}
	a.renderPicker(w, r, page, p, v, reaction)
}

// htmlEmojiEventHandler forwards window events to the session's popover.
// A dismissal answers with the closed placeholder; anything else with 204.
// POST /html/emoji-picker/event (key | target | pointer=leave)
func (a *App) htmlEmojiEventHandler(w http.ResponseWriter, r *http.Request) {
	session := a.sessions.FromRequest(r)
	key := session
	if key == "" {
		key = clientIP(r)
	}
	if !a.limiter.Allow(key) {
		a.metrics.RateLimited()
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	p, ok := a.popovers.Get(session)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var closed bool
	switch {
	case r.FormValue("key") != "":
		closed = a.popovers.DispatchKey(p, r.FormValue("key"))
	case r.FormValue("pointer") == "leave":
		p.ctrl.MouseLeave()
		closed = a.popovers.isClosed(p)
	default:
		closed = a.popovers.DispatchClick(p, r.FormValue("target"))
	}

	if !closed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	html, err := renderString(a.render.picker, "emoji-picker-closed", map[string]string{"ID": p.ctrl.View().ID})
	if err != nil {
		LoggerFromContext(r.Context()).Error("failed to render closed picker", "error", err)
		util.RespondInternalError(w, "Error rendering page")
		return
	}
	util.SetHTMLHeaders(w, "0")
	util.WriteHTML(w, html)
}

// htmlEmojiExpandHandler leaves compact mode
// POST /html/emoji-picker/expand
func (a *App) htmlEmojiExpandHandler(w http.ResponseWriter, r *http.Request) {
	page, session := a.page(w, r, "Emoji picker")
	p, ok := a.popovers.Get(session)
	if !ok {
		util.RespondNotFound(w, "No emoji picker is open")
		return
	}
	p.ctrl.ExpandCompact()
	a.renderPicker(w, r, page, p, p.ctrl.View(), nil)
}

func (a *App) renderPicker(w http.ResponseWriter, r *http.Request, page Page, p *popover, v picker.View, reaction *actionButton) {
	data := pickerData{
		Page:     page,
		View:     v,
		Tabs:     pickerTabs(v, p.target),
		Reaction: reaction,
	}
	renderWidget(w, r, a.render.picker, data, "0")
}

// pickerTabs marks the preset tab active in preset mode, otherwise the tab whose
// filter equals the term
func pickerTabs(v picker.View, target string) []pickerTab {
	tabs := make([]pickerTab, 0, len(v.Groups))
	for _, g := range v.Groups {
		active := g.Filter == v.Term && !v.ShowPreset
		if g.Filter == emoji.DefaultFilter {
			active = v.ShowPreset
		}
		tabs = append(tabs, pickerTab{
			Label:  g.Label,
			Icon:   g.Icon,
			Href:   util.BuildURL("/html/emoji-picker", map[string]string{"filter": g.Filter, "target": target}),
			Active: active,
		})
	}
	return tabs
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
