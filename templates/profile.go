package templates

// GetProfileTemplate returns the profile card.
func GetProfileTemplate() string {
	return profileTemplate
}

var profileTemplate = `{{define "profile-card"}}{{$c := .Card}}<article id="profile-{{$c.Pubkey}}" class="profile-card">
  {{if $c.Banner}}<img class="profile-banner" src="{{$c.Banner}}" alt="" loading="lazy">{{end}}
  <header class="profile-header">
    {{if $c.Picture}}<img class="avatar avatar-large" src="{{$c.Picture}}" alt="" loading="lazy">{{else}}<span class="avatar avatar-large avatar-initial" aria-hidden="true">{{$c.Initial}}</span>{{end}}
    <div class="profile-names">
      <h2 class="profile-name"><a href="{{$c.Link}}">{{$c.Name}}</a></h2>
      {{if $c.HasNip05}}<span class="profile-nip05 verified">{{$c.Nip05}}</span>{{end}}
      <span class="profile-npub" title="{{$c.Npub}}">{{shortNpub $c.Npub}}</span>
    </div>
  </header>
  {{if $c.About}}<div class="profile-about">{{$c.About}}</div>{{end}}
  <ul class="profile-links">
    {{if $c.Lud16}}<li class="profile-lud16">&#9889; {{$c.Lud16}}</li>{{end}}
    {{if $c.Website}}<li class="profile-website"><a href="{{$c.Website}}" rel="nofollow noopener" target="_blank">{{$c.Website}}</a></li>{{end}}
  </ul>
</article>{{end}}`
