package main

import (
	"errors"
	"net/http"

	"nostr-widgets/internal/buttons"
	"nostr-widgets/internal/util"
)

type actionsData struct {
	Page
	NoteID  string
	Large   bool
	Buttons []actionButton
}

// htmlNoteActionsHandler renders the action footer for a note
// GET /html/note-actions?id=&reply=&zap=&like=&repost=&emoji=&highlight=&primary=&large=
func (a *App) htmlNoteActionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	noteID, ok := parseNoteID(q.Get("id"))
	if !ok {
		util.RespondBadRequest(w, "Invalid note id")
		return
	}

	highlighted := make(map[string]bool)
	for _, t := range parseList(q.Get("highlight")) {
		if _, err := buttons.ClassFor(t); err != nil {
			util.RespondBadRequest(w, err.Error())
			return
		}
		highlighted[t] = true
	}

	bar := buttons.Bar{
		NoteID: noteID,
		Stats: buttons.Stats{
			Replies: parseCount(q.Get("reply")),
			Zaps:    parseCount(q.Get("zap")),
			Likes:   parseCount(q.Get("like")),
			Reposts: parseCount(q.Get("repost")),
		},
		Highlighted: highlighted,
		Reaction:    a.reactionOption(q.Get("emoji")),
		Primary:     util.ParseBool(q.Get("primary")),
		Large:       util.ParseBool(q.Get("large")),
	}

	views, err := bar.Render(isPhone(r))
	if err != nil {
		if errors.Is(err, buttons.ErrUnknownButtonType) {
			util.RespondBadRequest(w, err.Error())
			return
		}
		util.RespondInternalError(w, "Error rendering page")
		return
	}

	page, _ := a.page(w, r, "Note actions")
	data := actionsData{Page: page, NoteID: noteID, Large: bar.Large}
	for _, v := range views {
		data.Buttons = append(data.Buttons, actionButton{View: v})
	}
	renderWidget(w, r, a.render.actions, data, "0")
}
