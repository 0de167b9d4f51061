package core

import (
	"fmt"
	"html"
	"strings"
)

type DocumentInput struct {
	Title       string
	Description string
	BodyHTML    string
	CSSHref     string
	ScriptSrc   string
}

func RenderHTMLShell(in DocumentInput) (string, error) {
	if in.CSSHref == "" {
		return "", fmt.Errorf("missing stylesheet href")
	}

	title := in.Title
	if title == "" {
		title = "Portfolio"
	}

	var head strings.Builder
	head.WriteString(`<meta charset="UTF-8" /><meta name="viewport" content="width=device-width, initial-scale=1.0" />`)
	fmt.Fprintf(&head, "<title>%s</title>", html.EscapeString(title))
	if in.Description != "" {
		fmt.Fprintf(&head, `<meta name="description" content="%s" />`, html.EscapeString(in.Description))
	}
	fmt.Fprintf(&head, `<link rel="stylesheet" href="%s" />`, html.EscapeString(in.CSSHref))

	script := ""
	if in.ScriptSrc != "" {
		script = fmt.Sprintf(`    <script src="%s" defer></script>`+"\n", html.EscapeString(in.ScriptSrc))
	}

	doc := fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    %s
  </head>
  <body>
    <div id="top" class="page">%s</div>
%s  </body>
</html>
`, head.String(), in.BodyHTML, script)

	return doc, nil
}
