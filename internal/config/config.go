// Package config loads the portfolio description from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/3-lines-studio/folio/internal/core"
)

const (
	DefaultFile      = "portfolio.yaml"
	DefaultPublicDir = "public"
	DefaultAddr      = ":8080"

	sequencePlaceholder = "{n}"
)

var (
	ErrMissingName      = errors.New("artist.name is required")
	ErrInvalidSequence  = errors.New("invalid gallery.sequence")
	ErrConflictingImage = errors.New("gallery.images and gallery.sequence are mutually exclusive")
	ErrInvalidDuration  = errors.New("invalid duration")
)

type Artist struct {
	Name      string   `yaml:"name"`
	Handle    string   `yaml:"handle"`
	Signature string   `yaml:"signature"`
	Lines     []string `yaml:"lines"`
	Instagram string   `yaml:"instagram"`
	Email     string   `yaml:"email"`
}

type Hero struct {
	Headline string   `yaml:"headline"`
	Subline  string   `yaml:"subline"`
	Marquee  []string `yaml:"marquee"`
}

type About struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	// File is a markdown file, relative to the config file. It wins over Body.
	File string `yaml:"file"`
}

type Contact struct {
	Title  string `yaml:"title"`
	Blurb  string `yaml:"blurb"`
	Button string `yaml:"button"`
}

type Sequence struct {
	Pattern string `yaml:"pattern"`
	Start   int    `yaml:"start"`
	Count   int    `yaml:"count"`
}

type Gallery struct {
	Images   []string  `yaml:"images"`
	Sequence *Sequence `yaml:"sequence"`
}

type Probe struct {
	Enabled     *bool  `yaml:"enabled"`
	Remote      bool   `yaml:"remote"`
	Timeout     string `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"`
	TTL         string `yaml:"ttl"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Artist    Artist  `yaml:"artist"`
	Hero      Hero    `yaml:"hero"`
	About     About   `yaml:"about"`
	Contact   Contact `yaml:"contact"`
	Gallery   Gallery `yaml:"gallery"`
	PublicDir string  `yaml:"public_dir"`
	Probe     Probe   `yaml:"probe"`
	Server    Server  `yaml:"server"`

	// Dir is the directory holding the config file; relative paths resolve
	// against it.
	Dir string `yaml:"-"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config dir: %w", err)
	}
	cfg.Dir = abs

	if cfg.About.File != "" {
		body, err := os.ReadFile(cfg.resolve(cfg.About.File))
		if err != nil {
			return nil, fmt.Errorf("failed to read about file: %w", err)
		}
		cfg.About.Body = string(body)
	}

	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PublicDir == "" {
		c.PublicDir = DefaultPublicDir
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Contact.Title == "" {
		c.Contact.Title = "Commissions & Inquiries"
	}
	if c.Contact.Blurb == "" {
		c.Contact.Blurb = "For collaborations or commissions, send a note."
	}
	if c.Contact.Button == "" {
		c.Contact.Button = "Email the studio"
	}
	if c.Gallery.Sequence != nil && c.Gallery.Sequence.Start == 0 {
		c.Gallery.Sequence.Start = 1
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Artist.Name) == "" {
		return ErrMissingName
	}

	if c.Gallery.Sequence != nil && len(c.Gallery.Images) > 0 {
		return ErrConflictingImage
	}

	if s := c.Gallery.Sequence; s != nil {
		if !strings.Contains(s.Pattern, sequencePlaceholder) {
			return fmt.Errorf("%w: pattern %q must contain %s", ErrInvalidSequence, s.Pattern, sequencePlaceholder)
		}
		if s.Count < 0 {
			return fmt.Errorf("%w: count must not be negative", ErrInvalidSequence)
		}
	}

	refs, err := c.imageRefs()
	if err != nil {
		return err
	}
	for i, ref := range refs {
		if err := core.ValidateImageRef(ref); err != nil {
			return fmt.Errorf("gallery image %d: %w", i+1, err)
		}
	}

	for name, raw := range map[string]string{"probe.timeout": c.Probe.Timeout, "probe.ttl": c.Probe.TTL} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidDuration, name, err)
		}
	}

	return nil
}

func (c *Config) imageRefs() ([]core.ImageRef, error) {
	if s := c.Gallery.Sequence; s != nil {
		refs := make([]core.ImageRef, 0, s.Count)
		for i := 0; i < s.Count; i++ {
			n := strconv.Itoa(s.Start + i)
			refs = append(refs, core.ImageRef(strings.ReplaceAll(s.Pattern, sequencePlaceholder, n)))
		}
		return refs, nil
	}

	refs := make([]core.ImageRef, len(c.Gallery.Images))
	for i, img := range c.Gallery.Images {
		refs[i] = core.ImageRef(strings.TrimSpace(img))
	}
	return refs, nil
}

// ImageRefs is the gallery order as configured.
func (c *Config) ImageRefs() []core.ImageRef {
	refs, _ := c.imageRefs()
	return refs
}

func (c *Config) Portfolio() core.Portfolio {
	return core.NewPortfolio(core.PortfolioInput{
		Profile: core.ProfileInput{
			Name:      c.Artist.Name,
			Handle:    c.Artist.Handle,
			Signature: c.Artist.Signature,
			Lines:     c.Artist.Lines,
			Instagram: c.Artist.Instagram,
			Email:     c.Artist.Email,
		},
		Hero: core.Hero{
			Headline: c.Hero.Headline,
			Subline:  c.Hero.Subline,
			Marquee:  c.Hero.Marquee,
		},
		About: core.About{
			Title: c.About.Title,
			Body:  c.About.Body,
		},
		Contact: core.Contact{
			Title:  c.Contact.Title,
			Blurb:  c.Contact.Blurb,
			Button: c.Contact.Button,
		},
		Images: c.ImageRefs(),
	})
}

func (c *Config) PublicPath() string {
	return c.resolve(c.PublicDir)
}

func (c *Config) ProbeEnabled() bool {
	return c.Probe.Enabled == nil || *c.Probe.Enabled
}

func (c *Config) ProbeTimeout() time.Duration {
	return parseDurationOr(c.Probe.Timeout, 10*time.Second)
}

func (c *Config) ProbeTTL() time.Duration {
	return parseDurationOr(c.Probe.TTL, 5*time.Minute)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

func parseDurationOr(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

// ResolvePath maps a command argument to a config file: a directory means
// the portfolio.yaml inside it, an empty argument the one in the working
// directory.
func ResolvePath(arg string) string {
	if arg == "" {
		return DefaultFile
	}
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return filepath.Join(arg, DefaultFile)
	}
	return arg
}
