package main

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"nostr-widgets/internal/nips"
	"nostr-widgets/internal/util"
	"nostr-widgets/templates"
)

// helmRequestHeader marks partial requests from HelmJS
const helmRequestHeader = "H-Request"

// Page carries the fields every rendered document needs
type Page struct {
	Title     string
	CSRFToken string
}

var widgetFuncs = template.FuncMap{
	"join":      strings.Join,
	"shortNpub": nips.FormatNpubShort,
	"dict":      dict,
}

// dict builds a map from alternating keys and values for sub-template calls
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// Renderer holds one compiled set per widget
type Renderer struct {
	picker  *template.Template
	actions *template.Template
	stream  *template.Template
	premium *template.Template
	profile *template.Template
}

func compileWidget(name, widget string, parts ...string) *template.Template {
	src := templates.GetBaseTemplate() + strings.Join(parts, "") + templates.ContentAlias(widget)
	return util.MustCompileTemplate(name, widgetFuncs, src)
}

// NewRenderer compiles all widget templates; exits on a malformed template
func NewRenderer() *Renderer {
	return &Renderer{
		picker:  compileWidget("picker", "emoji-picker", templates.GetActionsTemplate(), templates.GetPickerTemplate()),
		actions: compileWidget("actions", "note-actions", templates.GetActionsTemplate()),
		stream:  compileWidget("stream", "stream-card", templates.GetStreamTemplate()),
		premium: compileWidget("premium", "premium-summary", templates.GetPremiumTemplate()),
		profile: compileWidget("profile", "profile-card", templates.GetProfileTemplate()),
	}
}

// isHelmRequest reports whether the client wants the bare fragment
func isHelmRequest(r *http.Request) bool {
	return r.Header.Get(helmRequestHeader) == "true"
}

// renderString executes a named template into a string
func renderString(t *template.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderWidget writes the fragment, or the full page for direct navigation
func renderWidget(w http.ResponseWriter, r *http.Request, t *template.Template, data any, maxAge string) {
	name := "page"
	if isHelmRequest(r) {
		name = "content"
	}
	html, err := renderString(t, name, data)
	if err != nil {
		LoggerFromContext(r.Context()).Error("failed to render widget", "template", t.Name(), "error", err)
		util.RespondInternalError(w, "Error rendering page")
		return
	}
	util.SetHTMLHeaders(w, maxAge)
	util.WriteHTML(w, html)
}
