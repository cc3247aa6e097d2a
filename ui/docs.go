package ui

import (
	"html/template"
	"io/fs"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderDocs converts an embedded markdown page to HTML once at startup
func renderDocs(fsys fs.FS, name string) (template.HTML, error) {
	source, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})

	// the source is compiled into the binary, so it is trusted
	return template.HTML(markdown.Render(p.Parse(source), renderer)), nil
}
