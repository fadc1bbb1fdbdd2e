// Package site assembles the public portfolio page from the remote API,
// substituting fixed fallback content for any resource that cannot be fetched.
package site

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/portfolio/internal/domain"
)

// fetcher is the subset of apiclient.Client that the public page requires.
type fetcher interface {
	PrimaryProfile(ctx context.Context) (*domain.Profile, error)
	Ventures(ctx context.Context, token string) ([]domain.Venture, error)
	Testimonials(ctx context.Context, token string) ([]domain.Testimonial, error)
}

// contentProvider supplies the current fallback content.
type contentProvider interface {
	Content() *Content
}

// Page is the view model for the public page.
type Page struct {
	Profile      domain.Profile
	Ventures     []domain.Venture
	Testimonials []domain.Testimonial
	Content      *Content
	Year         int
}

// Title is the document title, e.g. "Ian Ward — Entrepreneur & Advisor".
func (p *Page) Title() string {
	if p.Profile.Title == "" {
		return p.Profile.FullName
	}
	return p.Profile.FullName + " — " + p.Profile.Title
}

// About is the long bio, or the short bio when no long bio is set.
func (p *Page) About() string {
	if p.Profile.BioLong != "" {
		return p.Profile.BioLong
	}
	return p.Profile.BioShort
}

type Loader struct {
	api     fetcher
	content contentProvider
	logger  *slog.Logger
	now     func() time.Time
}

func NewLoader(api fetcher, content contentProvider, logger *slog.Logger) *Loader {
	return &Loader{api: api, content: content, logger: logger, now: time.Now}
}

// Load fetches the primary profile, ventures and testimonials in parallel.
// Each failed fetch falls back to that resource's default independently; no
// failure is ever returned to the caller.
func (l *Loader) Load(ctx context.Context) *Page {
	c := l.content.Content()
	page := &Page{
		Profile:      c.Profile,
		Ventures:     c.Ventures,
		Testimonials: c.Testimonials,
		Content:      c,
		Year:         l.now().Year(),
	}

	var g errgroup.Group
	g.Go(func() error {
		p, err := l.api.PrimaryProfile(ctx)
		if err != nil {
			l.fallback("profile", err)
			return nil
		}
		page.Profile = *p
		return nil
	})
	g.Go(func() error {
		rows, err := l.api.Ventures(ctx, "")
		if err != nil {
			l.fallback("ventures", err)
			return nil
		}
		page.Ventures = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.api.Testimonials(ctx, "")
		if err != nil {
			l.fallback("testimonials", err)
			return nil
		}
		page.Testimonials = rows
		return nil
	})
	_ = g.Wait()

	return page
}

func (l *Loader) fallback(resource string, err error) {
	l.logger.Warn("using fallback content", "resource", resource, "error", err)
}

// Initial returns the first letter of s, or "" when s is empty.
func Initial(s string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Initials returns up to two initials for a full name: "Ian Ward" -> "IW".
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		b.WriteString(Initial(word))
	}
	return b.String()
}

// FirstName returns the first word of a full name.
func FirstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return ""
}

// YearRange formats a venture's active years: "2019 – 2024",
// "2019 – Present", "– 2024", or "" when neither year is set. A zero year
// counts as unset.
func YearRange(v domain.Venture) string {
	start, hasStart := setYear(v.StartYear)
	end, hasEnd := setYear(v.EndYear)

	var s string
	if hasStart {
		s = strconv.Itoa(start)
	}
	switch {
	case hasEnd:
		s += " – " + strconv.Itoa(end)
	case hasStart:
		s += " – Present"
	}
	return strings.TrimSpace(s)
}

func setYear(y *int) (int, bool) {
	if y == nil || *y == 0 {
		return 0, false
	}
	return *y, true
}

// Caption is the line shown under a testimonial author.
func Caption(t domain.Testimonial) string {
	if t.Company != "" {
		return t.Company
	}
	return t.AuthorTitle
}
