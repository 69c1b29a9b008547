// Package templates holds the HTML components rendered by the web server.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ViewLink is one entry of the index page.
type ViewLink struct {
	Name        string
	Description string
	URL         string
}

const indexHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Retail analytics</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 48rem; color: #1f2933; }
li { margin: .4rem 0; }
code { background: #f1f5f9; padding: 0 .25rem; }
</style>
</head>
<body>
<h1>Retail analytics</h1>
<p>Every view is served as JSON. Metrics are at <a href="/metrics"><code>/metrics</code></a>.</p>
<ul>
`

const indexTail = `</ul>
</body>
</html>
`

// Index lists the analytics views with links to their JSON endpoints.
func Index(views []ViewLink) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, indexHead); err != nil {
			return err
		}
		for _, v := range views {
			if err := viewItem(v).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, indexTail)
		return err
	})
}

func viewItem(v ViewLink) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<li><a href="`+templ.EscapeString(v.URL)+`"><code>`+
			templ.EscapeString(v.Name)+`</code></a> `+templ.EscapeString(v.Description)+"</li>\n")
		return err
	})
}
