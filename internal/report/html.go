package report

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	apierrors "salarypulse/internal/errors"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

type htmlPage struct {
	Title       string
	Intro       template.HTML
	Sections    []htmlSection
	GeneratedAt string
}

type htmlSection struct {
	Index    int
	Header   string
	Elements []htmlElement
}

type htmlElement struct {
	HTML   template.HTML
	Chart  template.URL
	Alt    string
	Width  int
	Height int
}

// WriteHTML renders page as a standalone HTML document. Narrative is
// markdown; charts are inlined as data URIs.
func WriteHTML(w io.Writer, page *Page) error {
	view, err := newHTMLPage(page)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return apierrors.NewRenderError("failed to render page", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return apierrors.NewRenderError("failed to write page", err)
	}
	return nil
}

// RenderHTML is WriteHTML into a byte slice.
func RenderHTML(page *Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newHTMLPage(page *Page) (*htmlPage, error) {
	intro, err := renderMarkdown(page.Intro)
	if err != nil {
		return nil, err
	}
	view := &htmlPage{
		Title:       page.Title,
		Intro:       intro,
		Sections:    make([]htmlSection, 0, len(page.Sections)),
		GeneratedAt: page.GeneratedAt.Format(time.RFC1123),
	}
	for i, s := range page.Sections {
		section := htmlSection{Index: i + 1, Header: s.Header}
		for _, e := range s.Elements {
			if e.Image == nil {
				text, err := renderMarkdown(e.Text)
				if err != nil {
					return nil, err
				}
				section.Elements = append(section.Elements, htmlElement{HTML: text})
				continue
			}
			alt := s.Header
			if e.Caption != nil && e.Caption.Title != "" {
				alt = e.Caption.Title
			}
			section.Elements = append(section.Elements, htmlElement{
				// Image bytes come from the chart renderer, never from input.
				Chart:  template.URL(e.Image.DataURI()),
				Alt:    alt,
				Width:  e.Image.Width,
				Height: e.Image.Height,
			})
		}
		view.Sections = append(view.Sections, section)
	}
	return view, nil
}

func renderMarkdown(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", apierrors.NewRenderError("failed to render markdown", err)
	}
	return template.HTML(buf.String()), nil
}
