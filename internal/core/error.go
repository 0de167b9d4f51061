package core

import (
	"html/template"
)

// ErrorData fills the page served when the portfolio cannot be rendered.
// Message is only shown in dev mode; RequestID lets a visitor quote the
// failing request against the server log.
type ErrorData struct {
	Message   string
	IsDev     bool
	RequestID string
}

var ErrorTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="robots" content="noindex">
    <title>Gallery unavailable</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 640px; margin: 15vh auto; padding: 0 20px; color: #111; background: #faf7f2; }
        h1 { font-size: 2rem; letter-spacing: -0.02em; }
        pre { background: #fff; border: 1px solid #e5e0d8; padding: 15px; overflow-x: auto; white-space: pre-wrap; }
        .request { color: #777; font-size: 0.85rem; }
        a { color: inherit; }
    </style>
</head>
<body>
    <h1>The gallery is taking a break</h1>
    {{if .IsDev}}
    <pre>{{.Message}}</pre>
    {{else}}
    <p>The works could not be hung right now. Please try again in a moment.</p>
    {{end}}
    {{with .RequestID}}<p class="request">Request {{.}}</p>{{end}}
    <p><a href="/">Back to the gallery</a></p>
</body>
</html>`))
