package site

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/vbonduro/portfolio/internal/domain"
)

//go:embed content.yaml
var defaultContent []byte

// Content holds the page copy and the fallback records rendered when the API
// cannot be reached.
type Content struct {
	Description   string               `yaml:"description"`
	Headline      []string             `yaml:"headline"`
	VenturesBlurb string               `yaml:"ventures_blurb"`
	ContactBlurb  string               `yaml:"contact_blurb"`
	Profile       domain.Profile       `yaml:"profile"`
	Ventures      []domain.Venture     `yaml:"ventures"`
	Testimonials  []domain.Testimonial `yaml:"testimonials"`
}

// ParseContent decodes a site content document. Fallback records get
// sequential display ids since the document never carries API identifiers.
func ParseContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}
	if c.Profile.FullName == "" {
		return nil, errors.New("site content: profile.full_name is required")
	}

	c.Profile.ID = 1
	for i := range c.Ventures {
		c.Ventures[i].ID = int64(i + 1)
	}
	for i := range c.Testimonials {
		c.Testimonials[i].ID = int64(i + 1)
	}
	return &c, nil
}

// DefaultContent returns the embedded content document.
func DefaultContent() *Content {
	c, err := ParseContent(defaultContent)
	if err != nil {
		panic(err)
	}
	return c
}

// ContentSource serves the current site content, optionally backed by a file
// that is reloaded whenever it changes.
type ContentSource struct {
	path    string
	current atomic.Pointer[Content]
	logger  *slog.Logger
}

// NewContentSource loads content from path, or the embedded document when path
// is empty.
func NewContentSource(path string, logger *slog.Logger) (*ContentSource, error) {
	s := &ContentSource{logger: logger}
	if path == "" {
		s.current.Store(DefaultContent())
		return s, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content path: %w", err)
	}
	s.path = abs
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ContentSource) Content() *Content {
	return s.current.Load()
}

func (s *ContentSource) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read site content: %w", err)
	}
	c, err := ParseContent(data)
	if err != nil {
		return err
	}
	s.current.Store(c)
	return nil
}

// Watch reloads the content file on every change until ctx is done. A change
// that fails to parse keeps the previous content. It returns immediately when
// the source is not file-backed.
func (s *ContentSource) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.path, err)
	}
	s.logger.Info("watching site content", "path", s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if err := s.reload(); err != nil {
				s.logger.Warn("site content reload failed, keeping previous content", "path", s.path, "error", err)
				continue
			}
			s.logger.Info("site content reloaded", "path", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("content watcher error", "error", err)
		}
	}
}
