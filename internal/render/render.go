// Package render turns a Portfolio and its resolved Gallery into HTML.
//
// Every section is a pure function of its input: the same Portfolio,
// Gallery and year always produce the same markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/3-lines-studio/folio/internal/core"
)

var (
	//go:embed templates/*.html
	templatesFS embed.FS

	//go:embed static
	staticFS embed.FS

	sectionTemplates = template.Must(template.New("sections").ParseFS(templatesFS, "templates/*.html"))
)

const (
	StylesheetName = "site.css"
	ScriptName     = "folio.js"

	taglineSeparator = " · "
	defaultAbout     = "About"
)

type PageData struct {
	Portfolio core.Portfolio
	Gallery   core.Gallery
	Now       time.Time
}

type Renderer struct {
	tmpl *template.Template
	md   goldmark.Markdown
}

func New() *Renderer {
	return &Renderer{
		tmpl: sectionTemplates,
		md:   goldmark.New(goldmark.WithExtensions(meta.Meta)),
	}
}

type navData struct {
	Name      string
	Handle    string
	Instagram string
}

func (r *Renderer) RenderNav(w io.Writer, profile core.ArtistProfile) error {
	return r.tmpl.ExecuteTemplate(w, "nav", navData{
		Name:      profile.Name(),
		Handle:    profile.Handle(),
		Instagram: profile.Instagram(),
	})
}

type heroData struct {
	Hero            core.Hero
	Lines           string
	ContactHref     string
	ContactExternal bool
}

func (r *Renderer) RenderHero(w io.Writer, p core.Portfolio) error {
	profile := p.Profile()
	data := heroData{
		Hero:  p.Hero(),
		Lines: strings.Join(profile.Lines(), taglineSeparator),
	}
	switch {
	case profile.Email() != "":
		data.ContactHref = "#contact"
	case profile.Instagram() != "":
		data.ContactHref = profile.Instagram()
		data.ContactExternal = true
	}
	return r.tmpl.ExecuteTemplate(w, "hero", data)
}

func (r *Renderer) RenderTile(w io.Writer, tile core.Tile) error {
	return r.tmpl.ExecuteTemplate(w, "tile", tile)
}

func (r *Renderer) RenderGallery(w io.Writer, g core.Gallery) error {
	return r.tmpl.ExecuteTemplate(w, "gallery", g)
}

type aboutData struct {
	Title     string
	Body      template.HTML
	Instagram string
}

func (r *Renderer) RenderAbout(w io.Writer, p core.Portfolio) error {
	about := p.About()
	body, title, err := r.markdown(about.Body)
	if err != nil {
		return fmt.Errorf("failed to render about text: %w", err)
	}
	if about.Title != "" {
		title = about.Title
	}
	if title == "" {
		title = defaultAbout
	}
	return r.tmpl.ExecuteTemplate(w, "about", aboutData{
		Title:     title,
		Body:      body,
		Instagram: p.Profile().Instagram(),
	})
}

type contactData struct {
	Contact core.Contact
	Mailto  string
}

func (r *Renderer) RenderContact(w io.Writer, p core.Portfolio) error {
	return r.tmpl.ExecuteTemplate(w, "contact", contactData{
		Contact: p.Contact(),
		Mailto:  p.Profile().MailtoURL(),
	})
}

type footerData struct {
	Year      int
	Signature string
	Handle    string
	Instagram string
}

func (r *Renderer) RenderFooter(w io.Writer, profile core.ArtistProfile, now time.Time) error {
	return r.tmpl.ExecuteTemplate(w, "footer", footerData{
		Year:      now.Year(),
		Signature: profile.Signature(),
		Handle:    profile.Handle(),
		Instagram: profile.Instagram(),
	})
}

// RenderBody writes the sections in page order.
func (r *Renderer) RenderBody(w io.Writer, data PageData) error {
	p := data.Portfolio
	steps := []func() error{
		func() error { return r.RenderNav(w, p.Profile()) },
		func() error { return r.RenderHero(w, p) },
		func() error { return r.RenderGallery(w, data.Gallery) },
		func() error { return r.RenderAbout(w, p) },
		func() error { return r.RenderContact(w, p) },
		func() error { return r.RenderFooter(w, p.Profile(), data.Now) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) RenderPage(data PageData) (string, error) {
	var body bytes.Buffer
	if err := r.RenderBody(&body, data); err != nil {
		return "", err
	}

	profile := data.Portfolio.Profile()
	return core.RenderHTMLShell(core.DocumentInput{
		Title:       profile.Name(),
		Description: strings.Join(profile.Lines(), taglineSeparator),
		BodyHTML:    body.String(),
		CSSHref:     core.AssetPrefix + StylesheetName,
		ScriptSrc:   core.AssetPrefix + ScriptName,
	})
}

// markdown converts src and returns the front matter title, if any.
func (r *Renderer) markdown(src string) (template.HTML, string, error) {
	if strings.TrimSpace(src) == "" {
		return "", "", nil
	}

	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := r.md.Convert([]byte(src), &buf, parser.WithContext(ctx)); err != nil {
		return "", "", err
	}

	title := ""
	if v, ok := meta.Get(ctx)["title"]; ok {
		title = fmt.Sprint(v)
	}

	// goldmark escapes raw HTML unless configured otherwise.
	return template.HTML(buf.String()), title, nil
}

// Asset returns an embedded asset. The stylesheet gets the masonry column
// rules generated from core.GalleryBreakpoints appended.
func Asset(name string) ([]byte, error) {
	data, err := staticFS.ReadFile("static/" + name)
	if err != nil {
		return nil, err
	}
	if name == StylesheetName {
		data = append(data, MasonryCSS()...)
	}
	return data, nil
}

func MasonryCSS() string {
	var b strings.Builder
	b.WriteString("\n/* masonry columns */\n")
	for _, bp := range core.GalleryBreakpoints {
		if bp.MinWidth <= 0 {
			fmt.Fprintf(&b, ".masonry { columns: %d; }\n", bp.Columns)
			continue
		}
		fmt.Fprintf(&b, "@media (min-width: %dpx) {\n  .masonry { columns: %d; }\n}\n", bp.MinWidth, bp.Columns)
	}
	return b.String()
}
