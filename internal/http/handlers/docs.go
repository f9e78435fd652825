package handlers

import "net/http"

const docsHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Map Poster Service</title>
<style>
body { font-family: sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
code, pre { background: #f4f4f4; border-radius: 4px; }
pre { padding: 1rem; overflow-x: auto; }
code { padding: 0.1rem 0.3rem; }
</style>
</head>
<body>
<h1>Map Poster Service</h1>
<p>Render a styled map poster for a location. POST a JSON body to <code>/render</code>.</p>

<h2>Location (pick one)</h2>
<ul>
<li><code>maps_link</code>: a Google Maps URL, e.g. <code>https://www.google.com/maps/@54.707849,25.3968932,16z</code></li>
<li><code>lat</code> and <code>lng</code>: explicit coordinates</li>
<li><code>address</code>: free-form text, geocoded via Nominatim</li>
</ul>

<h2>Options</h2>
<ul>
<li><code>zoom</code>: 0-20 (default from the link, or 16)</li>
<li><code>size</code>: map edge in pixels, clamped to the configured bounds</li>
<li><code>theme</code>: <code>light</code>, <code>dark</code> or <code>neon</code></li>
<li><code>title</code>, <code>subtitle</code>: poster text band</li>
<li><code>output</code>: <code>png</code> (default) or <code>pdf</code></li>
</ul>

<h2>Example</h2>
<pre>curl -s -X POST http://localhost:8080/render \
  -H 'Content-Type: application/json' \
  -d '{"maps_link":"https://www.google.com/maps/@54.707849,25.3968932,16z","title":"Pupoja","subtitle":"Vilnius","theme":"dark","output":"png"}'</pre>

<p>With object storage configured the response is <code>{"ok":true,"file":"...","url":"..."}</code>.
Without it the image is streamed back directly.</p>
</body>
</html>
`

func (a *App) Docs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(docsHTML))
}
