package mcp

import "net/http"

const landingHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>pdfask MCP Server</title>
<style>
  * { box-sizing: border-box; margin: 0; padding: 0; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; background: #111827; color: #d1d5db; min-height: 100vh; display: flex; align-items: center; justify-content: center; }
  .card { max-width: 640px; width: 92%; background: #1f2937; border-radius: 10px; padding: 2.25rem; box-shadow: 0 20px 40px rgba(0,0,0,0.45); }
  h1 { font-size: 1.6rem; margin-bottom: 0.5rem; color: #f9fafb; }
  .subtitle { color: #9ca3af; margin-bottom: 1.5rem; }
  .section { margin-bottom: 1.4rem; }
  .section-title { font-size: 0.7rem; text-transform: uppercase; letter-spacing: 0.1em; color: #6b7280; margin-bottom: 0.5rem; }
  a { color: #34d399; text-decoration: none; }
  a:hover { text-decoration: underline; }
  pre { background: #111827; border: 1px solid #374151; border-radius: 6px; padding: 0.9rem; overflow-x: auto; font-size: 0.8rem; line-height: 1.5; }
  code { font-family: "SF Mono", Menlo, monospace; }
  ul { list-style: none; }
  li { margin-bottom: 0.35rem; }
  .tool { font-family: "SF Mono", Menlo, monospace; color: #a7f3d0; }
</style>
</head>
<body>
<div class="card">
  <h1>pdfask MCP Server</h1>
  <p class="subtitle">Ask questions about an indexed PDF over the Model Context Protocol.</p>

  <div class="section">
    <div class="section-title">Tools</div>
    <ul>
      <li><span class="tool">ask_question</span> &mdash; answer a question from the indexed document</li>
      <li><span class="tool">search_chunks</span> &mdash; semantic chunk search with scores</li>
      <li><span class="tool">index_status</span> &mdash; collection name and chunk count</li>
    </ul>
  </div>

  <div class="section">
    <div class="section-title">Client configuration</div>
    <pre><code>{
  "mcpServers": {
    "pdfask": { "type": "http", "url": "http://localhost:8080/mcp" }
  }
}</code></pre>
  </div>

  <div class="section">
    <div class="section-title">Endpoints</div>
    <ul>
      <li><a href="/mcp"><code>/mcp</code></a> &mdash; MCP Streamable HTTP</li>
      <li><a href="/health"><code>/health</code></a> &mdash; Health check</li>
    </ul>
  </div>
</div>
</body>
</html>`

// NewLandingHandler returns an HTTP handler that serves the landing page at /.
func NewLandingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(landingHTML))
	}
}
