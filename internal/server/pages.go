package server

import "html/template"

var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>moxygen preview</title></head>
<body>
<h1>Documents</h1>
<p>{{.Stats}}</p>
<ul>
{{- range .Documents}}
<li><a href="/docs/{{.}}">{{.}}</a> (<a href="/raw/{{.}}">raw</a>)</li>
{{- end}}
</ul>
<form method="post" action="/reload"><button>Reload</button></form>
</body>
</html>
`))

var docPage = template.Must(template.New("doc").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<p><a href="/">index</a></p>
{{- if .Problems}}
<ul class="problems">
{{- range .Problems}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{.Body}}
</body>
</html>
`))
