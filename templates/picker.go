package templates

// GetPickerTemplate returns the emoji picker popover templates.
// Every control swaps the whole popover (h-swap="outer") so the server-side
// controller state and the rendered state never diverge.
func GetPickerTemplate() string {
	return pickerTemplate
}

var pickerTemplate = `{{define "emoji-picker"}}{{$id := .View.ID}}<div id="{{$id}}" class="emoji-picker orientation-{{.View.Orientation}}{{if .View.Compact}} compact{{end}}{{if .View.Short}} short{{end}}" role="dialog" aria-label="Emoji picker" data-state="{{if .View.ShowPreset}}preset{{else}}search{{end}}">
  <form id="{{$id}}-dismiss" method="POST" action="/html/emoji-picker/event" h-post h-target="#{{$id}}" h-swap="outer" h-trigger="keyup[key=='Escape'] from:window" hidden>
    <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
    <input type="hidden" name="key" value="Escape">
  </form>
  <form id="{{$id}}-outside" method="POST" action="/html/emoji-picker/event" h-post h-target="#{{$id}}" h-swap="outer" h-trigger="click from:window" hidden>
    <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
    <input type="hidden" name="target" value="document">
  </form>
  {{if not .View.Compact}}
  <form id="{{$id}}-search" class="emoji-search" method="GET" action="/html/emoji-picker" h-get h-target="#{{$id}}" h-swap="outer" h-trigger="input changed delay:150ms">
    <label for="{{$id}}-term" class="sr-only">Search emoji</label>
    <input id="{{$id}}-term" type="search" name="term" value="{{if not .View.ShowPreset}}{{.View.Term}}{{end}}" placeholder="Search emoji" autocomplete="off"{{if .View.FocusRequested}} autofocus{{end}}>
  </form>
  <nav id="{{$id}}-tabs" class="emoji-tabs" aria-label="Emoji groups">
    {{range .Tabs}}<a href="{{.Href}}" h-get h-target="#{{$id}}" h-swap="outer" class="emoji-tab{{if .Active}} active{{end}}" title="{{.Label}}"{{if .Active}} aria-current="true"{{end}}>{{.Icon}}</a>{{end}}
  </nav>
  {{end}}
  <form method="POST" action="/html/emoji-picker/select" h-post h-target="#{{$id}}" h-swap="outer">
    <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
    {{if .View.Preset}}<div id="{{$id}}-preset" class="emoji-preset">{{range .View.Preset}}{{template "emoji-option" .}}{{end}}</div>{{end}}
    {{if .View.Results}}<div id="{{$id}}-results" class="emoji-results">{{range .View.Results}}{{template "emoji-option" .}}{{end}}</div>{{else if not .View.Compact}}<p class="emoji-empty">No emoji found</p>{{end}}
  </form>
  {{if .View.Compact}}
  <form method="POST" action="/html/emoji-picker/expand" h-post h-target="#{{$id}}" h-swap="outer">
    <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
    <button id="{{$id}}-expand" type="submit" class="emoji-expand" title="More emoji" aria-label="More emoji">&hellip;</button>
  </form>
  {{end}}
</div>
{{if .Reaction}}{{template "action-button" .Reaction}}{{end}}{{end}}

{{define "emoji-option"}}<button type="submit" name="emoji" value="{{.Name}}" class="emoji-option" title="{{join .Keywords ", "}}">{{.Name}}</button>{{end}}

{{define "emoji-picker-closed"}}<div id="{{.ID}}" class="emoji-picker closed" hidden></div>{{end}}`
