package composer

import (
	"fmt"
	"html/template"
	"io"
	"os"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; }
body.dark-mode { background: #111827; color: #e5e7eb; }
pre { background: rgba(127,127,127,.15); padding: .75rem; overflow-x: auto; }
.prompt { white-space: pre-wrap; border-left: 3px solid #9ca3af; padding-left: .75rem; }
</style>
</head>
<body{{if .Dark}} class="dark-mode"{{end}}>
<h1>{{.Title}}</h1>
{{- if .Prompt}}
<div class="prompt">{{.Prompt}}</div>
{{- end}}
<div class="markdown-content">{{.Body}}</div>
</body>
</html>
`))

// Page is a standalone HTML document around a rendered response.
type Page struct {
	Title  string
	Prompt string
	Body   template.HTML
	Dark   bool
}

// WritePage renders p to w. Body must already be safe HTML; Title and Prompt
// are escaped.
func WritePage(w io.Writer, p Page) error {
	return pageTmpl.Execute(w, p)
}

// WritePageFile writes p to path. The file is only reported written once it
// has been closed without error.
func WritePageFile(path string, p Page) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePage(f, p); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
