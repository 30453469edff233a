package main

import (
	"context"
	"net/http"

	"nostr-widgets/internal/nips"
	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/profilecard"
	"nostr-widgets/internal/types"
	"nostr-widgets/internal/util"
)

type profileData struct {
	Page
	Card profilecard.Card
}

// profileFor loads pk's profile, falling back to a card with only the key
func (a *App) profileFor(ctx context.Context, pk string) *types.Profile {
	p, err := a.people.Get(ctx, pk)
	if err != nil {
		LoggerFromContext(ctx).Warn("failed to load profile", "pubkey", nostr.ShortID(pk), "error", err)
	}
	if p == nil {
		npub, _ := nips.EncodePubkey(pk)
		p = &types.Profile{Pubkey: pk, Npub: npub}
	}
	return p
}

// htmlProfileHandler renders a profile card
// GET /html/profile/{npub}
func (a *App) htmlProfileHandler(w http.ResponseWriter, r *http.Request) {
	pk, err := nips.DecodePubkey(r.PathValue("npub"))
	if err != nil {
		util.RespondBadRequest(w, "Invalid profile identifier")
		return
	}
	page, _ := a.page(w, r, "Profile")
	card := profilecard.New(a.profileFor(r.Context(), pk))
	page.Title = card.Name
	renderWidget(w, r, a.render.profile, profileData{Page: page, Card: card}, "60")
}

// htmlAccountHandler binds a read-only pubkey to the session and renders its card
// POST /html/account (pubkey)
func (a *App) htmlAccountHandler(w http.ResponseWriter, r *http.Request) {
	pk, err := nips.DecodePubkey(r.FormValue("pubkey"))
	if err != nil {
		util.RespondBadRequest(w, "Invalid public key")
		return
	}
	page, session := a.page(w, r, "Account")

	ctx, cancel := context.WithTimeout(r.Context(), accountTimeout)
	err = a.accounts.SetPubkey(ctx, session, pk)
	cancel()
	if err != nil {
		LoggerFromContext(r.Context()).Error("failed to bind account", "session", shortSession(session), "error", err)
		util.RespondServiceUnavailable(w, "Could not save account")
		return
	}

	card := profilecard.New(a.profileFor(r.Context(), pk))
	page.Title = card.Name
	renderWidget(w, r, a.render.profile, profileData{Page: page, Card: card}, "0")
}
