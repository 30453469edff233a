package templates

// GetActionsTemplate returns the note footer templates.
// "action-button" is shared with the emoji picker, which swaps the emoji button
// out-of-band after a selection.
func GetActionsTemplate() string {
	return actionsTemplate
}

var actionsTemplate = `{{define "note-actions"}}<div id="note-actions-{{.NoteID}}" class="note-actions{{if .Large}} large{{end}}" role="group" aria-label="Note actions">
  {{range .Buttons}}{{template "action-button" .}}{{end}}
  <div id="emoji-picker-slot-{{.NoteID}}" class="emoji-picker-slot"></div>
</div>{{end}}

{{define "action-button"}}<button id="{{.ID}}" type="button" class="note-action {{.TypeClass}}{{if .Highlighted}} highlighted{{end}}{{if .Large}} large{{end}}" style="visibility: {{.Visibility}}" title="{{.Title}}" aria-label="{{.Title}}"{{if .Disabled}} disabled{{end}}{{if eq .Type "emoji"}} h-get="/html/emoji-picker?compact=1&amp;target={{.NoteID}}" h-target="#emoji-picker-slot-{{.NoteID}}" h-swap="inner"{{end}}{{if .OOB}} h-oob="outer"{{end}}>
  <span class="action-icon" aria-hidden="true">{{.Glyph}}</span>{{if and .ShowLabel .Label}}<span class="action-count">{{.Label}}</span>{{end}}
</button>{{end}}`
