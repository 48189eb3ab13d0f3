package server

import (
	"html/template"
	"net/http"
)

// The UI is server-rendered with no client-side dependencies; charts are
// plain <img> tags pointing at the SVG endpoints.

const pageStyle = `
body { font-family: sans-serif; margin: 2rem; color: #0f172a; background: #f8fafc; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; background: #fff; }
th, td { padding: 0.5rem 1rem; border: 1px solid #e2e8f0; text-align: left; }
th { background: #f1f5f9; }
a { color: #2563eb; text-decoration: none; }
.charts img { display: block; margin-bottom: 1.5rem; background: #fff; border: 1px solid #e2e8f0; }
.error { color: #dc2626; }
dl { background: #fff; border: 1px solid #e2e8f0; padding: 1rem; display: grid; grid-template-columns: 12rem 1fr; }
dt { font-weight: bold; }
`

var homeTmpl = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head><title>nodepulse</title><style>` + pageStyle + `</style></head>
<body>
<h1>Nodes</h1>
{{if .}}
<table>
<tr><th>Node</th><th>Last Seen</th><th>CPU Cores</th><th>Memory</th><th>Temp Sensors</th></tr>
{{range .}}
<tr>
<td><a href="/ui/node/{{.NodeID}}">{{.ShortID}}</a></td>
<td>{{.LastSeen}}</td>
<td>{{.CPUCores}}</td>
<td>{{.MemoryTotalGB}}</td>
<td>{{.TempSensors}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No nodes have reported yet.</p>
{{end}}
</body>
</html>`))

var nodeTmpl = template.Must(template.New("node").Parse(`<!DOCTYPE html>
<html>
<head><title>nodepulse - {{.ShortID}}</title><style>` + pageStyle + `</style></head>
<body>
<p><a href="/ui">&larr; All nodes</a></p>
<h1>Node {{.ShortID}}</h1>
<dl>
<dt>Node ID</dt><dd>{{.NodeID}}</dd>
<dt>Last Seen</dt><dd>{{.LastSeen}}</dd>
<dt>Hostname</dt><dd>{{.Hostname}}</dd>
<dt>OS</dt><dd>{{.OSName}}</dd>
<dt>Kernel</dt><dd>{{.KernelVersion}}</dd>
<dt>Architecture</dt><dd>{{.CPUArch}}</dd>
<dt>CPU Cores</dt><dd>{{.CPUCores}}</dd>
<dt>Memory</dt><dd>{{.MemoryTotalGB}}</dd>
</dl>
<div class="charts">
<h2>Last 24 hours</h2>
<img src="/ui/node/{{.NodeID}}/cpu.svg" alt="CPU usage">
<img src="/ui/node/{{.NodeID}}/memory.svg" alt="Memory usage">
<img src="/ui/node/{{.NodeID}}/temperature.svg" alt="Temperature">
</div>
</body>
</html>`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><title>nodepulse - {{.Title}}</title><style>` + pageStyle + `</style></head>
<body>
<p><a href="/ui">&larr; All nodes</a></p>
<h1 class="error">{{.Title}}</h1>
<p>{{.Message}}</p>
</body>
</html>`))

func renderHome(w http.ResponseWriter, summaries []nodeSummary) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = homeTmpl.Execute(w, summaries)
}

func renderNode(w http.ResponseWriter, details nodeDetails) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = nodeTmpl.Execute(w, details)
}

// renderErrorPage renders a labeled error state inline as HTML, so a
// browser never sees a bare status page.
func renderErrorPage(w http.ResponseWriter, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = errorTmpl.Execute(w, struct{ Title, Message string }{title, message})
}
