package templates

// GetPremiumTemplate returns the premium subscription summary panel.
func GetPremiumTemplate() string {
	return premiumTemplate
}

var premiumTemplate = `{{define "premium-summary"}}{{$v := .View}}<section id="premium-summary" class="premium-summary{{if $v.Expanded}} expanded{{end}}">
  {{if .Error}}<div class="form-error" role="alert">{{.Error}}</div>{{end}}
  <h2 class="premium-name">{{$v.Name}}</h2>
  <dl class="premium-rows">
    {{template "premium-row" dict "Row" $v.Nip05 "CSRFToken" .CSRFToken}}
    {{template "premium-row" dict "Row" $v.Lud16 "CSRFToken" .CSRFToken}}
    <div class="premium-row">
      <dt>VIP profile on {{.Domain}}</dt>
      <dd>{{$v.VIPProfile}}</dd>
    </div>
    {{if $v.Expanded}}
    <div class="premium-row">
      <dt>Media storage used</dt>
      <dd>{{$v.StorageUsed}}</dd>
    </div>
    <div class="premium-row">
      <dt>Subscription expires on</dt>
      <dd>{{$v.ExpiresOn}}</dd>
    </div>
    {{end}}
  </dl>
  {{if $v.Lud16QRDataURL}}<img class="premium-qr" src="{{$v.Lud16QRDataURL}}" alt="Lightning address QR code" width="128" height="128">{{end}}
  {{if not $v.Expanded}}<a href="/html/premium?expanded=1" h-get h-target="#premium-summary" h-swap="outer" class="premium-more">Show details</a>{{end}}
</section>{{end}}

{{define "premium-row"}}<div class="premium-row premium-{{.Row.Option}}">
  <dt>{{.Row.Label}}</dt>
  {{if .Row.Matches}}<dd class="premium-value">{{.Row.Premium}}</dd>
  {{else}}<dd class="premium-value">
    {{if .Row.Current}}<span class="premium-current">{{.Row.Current}}</span>{{end}}
    <span class="premium-address">{{.Row.Premium}}</span>
    {{if .Row.CanApply}}<form method="POST" action="/html/premium/apply" class="inline-form" h-post h-target="#premium-summary" h-swap="outer">
      <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
      <input type="hidden" name="option" value="{{.Row.Option}}">
      <button type="submit" class="premium-apply">apply</button>
    </form>{{end}}
  </dd>{{end}}
</div>{{end}}`
