package web

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// DefaultAbout is shown when no about file is configured.
const DefaultAbout = "# About libsearch\n\n" +
	"libsearch lists Go **libraries** and the **repositories** they live in.\n\n" +
	"The catalog is served as JSON:\n\n" +
	"```sh\ncurl http://localhost:8080/libs\ncurl http://localhost:8080/repos\n```\n"

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// renderMarkdown converts src to HTML. Raw HTML in src is dropped by the
// renderer, so the result is safe to embed.
func renderMarkdown(src []byte) (template.HTML, error) {
	if len(src) == 0 {
		src = []byte(DefaultAbout)
	}
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
