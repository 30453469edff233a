package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/people"
	"nostr-widgets/internal/summary"
	"nostr-widgets/internal/types"
	"nostr-widgets/internal/util"
)

// publishTimeout bounds refresh + sign + publish of a metadata update
const publishTimeout = 10 * time.Second

type premiumData struct {
	Page
	View   summary.View
	Domain string
	Error  string
}

// premiumPanel resolves the session's bound user and membership. It writes the
// error response itself and returns ok=false when the panel cannot be shown.
func (a *App) premiumPanel(w http.ResponseWriter, r *http.Request, session string) (summary.Panel, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), accountTimeout)
	defer cancel()

	pk := a.accounts.Pubkey(ctx, session)
	if pk == "" {
		util.RespondUnauthorized(w, "No account bound to this session")
		return summary.Panel{}, false
	}
	membership, ok := a.cfg.Membership(pk)
	if !ok {
		util.RespondNotFound(w, "No premium membership")
		return summary.Panel{}, false
	}

	user, err := a.people.Get(r.Context(), pk)
	if err != nil {
		LoggerFromContext(ctx).Warn("failed to load premium user", "pubkey", nostr.ShortID(pk), "error", err)
	}
	if user == nil {
		user = &types.Profile{Pubkey: pk}
	}

	return summary.Panel{
		Membership: membership,
		ActiveUser: user,
		Domain:     a.cfg.Premium.Domain,
		Rename:     util.ParseBool(r.FormValue("rename")),
		Expanded:   util.ParseBool(r.FormValue("expanded")),
	}, true
}

// htmlPremiumHandler renders the subscription summary panel
// GET /html/premium?expanded=&rename=
func (a *App) htmlPremiumHandler(w http.ResponseWriter, r *http.Request) {
	page, session := a.page(w, r, "Premium")
	panel, ok := a.premiumPanel(w, r, session)
	if !ok {
		return
	}
	renderWidget(w, r, a.render.premium, premiumData{Page: page, View: panel.View(), Domain: panel.Domain}, "0")
}

// htmlPremiumApplyHandler writes the premium address into the user's nip05 or
// lud16 and re-renders the panel
// POST /html/premium/apply (option)
func (a *App) htmlPremiumApplyHandler(w http.ResponseWriter, r *http.Request) {
	page, session := a.page(w, r, "Premium")
	panel, ok := a.premiumPanel(w, r, session)
	if !ok {
		return
	}
	log := LoggerFromContext(r.Context())
	pk := panel.ActiveUser.Pubkey

	var field string
	if err := summary.Apply(r.FormValue("option"), func(f string) { field = f }); err != nil {
		util.RespondBadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), publishTimeout)
	defer cancel()

	data := premiumData{Page: page, Domain: panel.Domain}
	updated, err := a.updater.SetField(ctx, pk, field, panel.Address())
	switch {
	case errors.Is(err, nostr.ErrNoSigner), errors.Is(err, people.ErrSignerMismatch):
		a.metrics.Published("forbidden")
		util.RespondForbidden(w, "Profile updates are not enabled for this account")
		return
	case err != nil:
		a.metrics.Published("failed")
		log.Warn("premium apply failed", "pubkey", nostr.ShortID(pk), "field", field, "error", err)
		data.Error = "Could not update your profile. Please try again."
	default:
		a.metrics.Published("ok")
		panel.ActiveUser = updated
	}

	data.View = panel.View()
	renderWidget(w, r, a.render.premium, data, "0")
}
