package templates

// GetStreamTemplate returns the live stream link card.
// With an SSE source the card replaces itself on every "state" event, so it moves
// from empty to stream to resolved as data arrives.
func GetStreamTemplate() string {
	return streamTemplate
}

var streamTemplate = `{{define "stream-card"}}{{$c := .Card}}<article id="{{.ID}}" class="stream-preview state-{{$c.State}}{{if $c.IsLive}} live{{end}}"{{if .SSE}} h-sse="{{.SSE}}"{{end}}>
  {{if .SSE}}<template h-sse-on="state" h-target="#{{.ID}}" h-swap="outer"></template>{{end}}
  <div class="stream-thumbnail">
    {{if $c.Image}}<img src="{{$c.Image}}" alt="" loading="lazy">{{end}}
    {{if $c.Status}}<span class="stream-status status-{{$c.Status}}">{{if $c.IsLive}}LIVE{{else}}{{$c.Status}}{{end}}</span>{{end}}
    {{if $c.HasStream}}<span class="stream-participants" title="Watching">{{$c.Participants}}</span>{{end}}
  </div>
  <div class="stream-info">
    <div class="stream-host">
      {{if $c.HostPicture}}<img class="avatar" src="{{$c.HostPicture}}" alt="" loading="lazy">{{else if $c.HostInitial}}<span class="avatar avatar-initial" aria-hidden="true">{{$c.HostInitial}}</span>{{end}}
      <span class="host-name">{{$c.HostName}}</span>
      {{if $c.HostVerified}}<span class="host-nip05 verified">{{$c.HostNip05}}</span>{{end}}
    </div>
    <h3 class="stream-title">{{if $c.Href}}<a href="{{$c.Href}}">{{$c.Title}}</a>{{else}}{{$c.Title}}{{end}}</h3>
    {{if $c.StatusText}}<time class="stream-time" datetime="{{$c.StartedAt}}">{{$c.StatusText}}</time>{{end}}
    {{if $c.Summary}}<div class="stream-summary">{{$c.Summary}}</div>{{end}}
    {{if $c.Avatars}}<ul class="stream-avatars">{{range $c.Avatars}}<li title="{{.Name}}">{{if .Picture}}<img class="avatar" src="{{.Picture}}" alt="{{.Name}}" loading="lazy">{{else}}<span class="avatar avatar-initial">{{.Initial}}</span>{{end}}</li>{{end}}</ul>{{end}}
  </div>
</article>{{end}}`
