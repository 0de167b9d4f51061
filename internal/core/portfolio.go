package core

import (
	"slices"
	"strings"
	"unicode"
)

type ImageRef string

func (r ImageRef) IsRemote() bool {
	s := strings.ToLower(string(r))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (r ImageRef) String() string {
	return string(r)
}

type ProfileInput struct {
	Name      string
	Handle    string
	Signature string
	Lines     []string
	Instagram string
	Email     string
}

// ArtistProfile is read-only after construction. Slice accessors return copies.
type ArtistProfile struct {
	name      string
	handle    string
	signature string
	lines     []string
	instagram string
	email     string
}

func NewArtistProfile(in ProfileInput) ArtistProfile {
	signature := strings.TrimSpace(in.Signature)
	if signature == "" {
		signature = DeriveSignature(in.Name)
	}
	return ArtistProfile{
		name:      in.Name,
		handle:    in.Handle,
		signature: signature,
		lines:     slices.Clone(in.Lines),
		instagram: in.Instagram,
		email:     in.Email,
	}
}

func (p ArtistProfile) Name() string      { return p.name }
func (p ArtistProfile) Handle() string    { return p.handle }
func (p ArtistProfile) Signature() string { return p.signature }
func (p ArtistProfile) Instagram() string { return p.instagram }
func (p ArtistProfile) Email() string     { return p.email }
func (p ArtistProfile) Lines() []string   { return slices.Clone(p.lines) }

func (p ArtistProfile) MailtoURL() string {
	if p.email == "" {
		return ""
	}
	return "mailto:" + p.email
}

// DeriveSignature drops trailing decoration (emoji, symbols, spaces) from a
// display name, so "NAME 🌴" signs captions as "NAME".
func DeriveSignature(name string) string {
	return strings.TrimRightFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

type Hero struct {
	Headline string
	Subline  string
	Marquee  []string
}

type About struct {
	Title string
	// Body is markdown.
	Body string
}

type Contact struct {
	Title  string
	Blurb  string
	Button string
}

type PortfolioInput struct {
	Profile ProfileInput
	Hero    Hero
	About   About
	Contact Contact
	Images  []ImageRef
}

// Portfolio is the complete static input of a page render.
type Portfolio struct {
	profile ArtistProfile
	hero    Hero
	about   About
	contact Contact
	images  []ImageRef
}

func NewPortfolio(in PortfolioInput) Portfolio {
	hero := in.Hero
	hero.Marquee = slices.Clone(in.Hero.Marquee)
	return Portfolio{
		profile: NewArtistProfile(in.Profile),
		hero:    hero,
		about:   in.About,
		contact: in.Contact,
		images:  slices.Clone(in.Images),
	}
}

func (p Portfolio) Profile() ArtistProfile { return p.profile }
func (p Portfolio) About() About           { return p.about }
func (p Portfolio) Contact() Contact       { return p.contact }
func (p Portfolio) Images() []ImageRef     { return slices.Clone(p.images) }

func (p Portfolio) Hero() Hero {
	h := p.hero
	h.Marquee = slices.Clone(p.hero.Marquee)
	return h
}
