package templates

// Base template - standalone document shell for widget fragments.
// Each template set defines "content" as its widget; requests from HelmJS render
// "content" alone, direct navigation renders "page" which wraps it.

// GetBaseTemplate returns the page shell template.
func GetBaseTemplate() string {
	return baseTemplate
}

var baseTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta name="csrf-token" content="{{.CSRFToken}}">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="/static/widgets.css">
  <script src="/static/helm.js" defer></script>
</head>
<body>
  <span id="nav-loading" class="h-indicator"><span class="h-spinner"></span></span>
  <main id="page-content">
    <h1 class="sr-only">{{.Title}}</h1>
    {{template "content" .}}
  </main>
</body>
</html>{{end}}`

// ContentAlias defines "content" as the named widget template.
func ContentAlias(name string) string {
	return `{{define "content"}}{{template "` + name + `" .}}{{end}}`
}
