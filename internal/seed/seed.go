// Package seed creates the site content's records through the API when they
// are missing. Records are matched by name, so running it twice is harmless.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/portfolio/internal/domain"
	"github.com/vbonduro/portfolio/internal/site"
)

// API is the subset of apiclient.Client that seeding requires.
type API interface {
	Profiles(ctx context.Context, token string) ([]domain.Profile, error)
	CreateProfile(ctx context.Context, token string, p domain.Profile) (domain.Profile, error)
	Ventures(ctx context.Context, token string) ([]domain.Venture, error)
	CreateVenture(ctx context.Context, token string, v domain.Venture) (domain.Venture, error)
	Testimonials(ctx context.Context, token string) ([]domain.Testimonial, error)
	CreateTestimonial(ctx context.Context, token string, t domain.Testimonial) (domain.Testimonial, error)
}

type Result struct {
	Created  int
	Existing int
}

// Run gets or creates the profile, every venture and every testimonial in c.
func Run(ctx context.Context, api API, c *site.Content, token string, logger *slog.Logger) (Result, error) {
	var res Result

	profiles, err := api.Profiles(ctx, token)
	if err != nil {
		return res, fmt.Errorf("failed to list profiles: %w", err)
	}
	if hasProfile(profiles, c.Profile.FullName) {
		res.Existing++
	} else {
		p := c.Profile
		p.ID = 0
		created, err := api.CreateProfile(ctx, token, p)
		if err != nil {
			return res, fmt.Errorf("failed to create profile %q: %w", p.FullName, err)
		}
		logger.Info("created profile", "id", created.ID, "full_name", created.FullName)
		res.Created++
	}

	ventures, err := api.Ventures(ctx, token)
	if err != nil {
		return res, fmt.Errorf("failed to list ventures: %w", err)
	}
	names := make(map[string]bool, len(ventures))
	for _, v := range ventures {
		names[v.Name] = true
	}
	for _, v := range c.Ventures {
		if names[v.Name] {
			res.Existing++
			continue
		}
		v.ID = 0
		created, err := api.CreateVenture(ctx, token, v)
		if err != nil {
			return res, fmt.Errorf("failed to create venture %q: %w", v.Name, err)
		}
		logger.Info("created venture", "id", created.ID, "name", created.Name)
		names[v.Name] = true
		res.Created++
	}

	testimonials, err := api.Testimonials(ctx, token)
	if err != nil {
		return res, fmt.Errorf("failed to list testimonials: %w", err)
	}
	authors := make(map[string]bool, len(testimonials))
	for _, t := range testimonials {
		authors[t.AuthorName] = true
	}
	for _, t := range c.Testimonials {
		if authors[t.AuthorName] {
			res.Existing++
			continue
		}
		t.ID = 0
		created, err := api.CreateTestimonial(ctx, token, t)
		if err != nil {
			return res, fmt.Errorf("failed to create testimonial %q: %w", t.AuthorName, err)
		}
		logger.Info("created testimonial", "id", created.ID, "author_name", created.AuthorName)
		authors[t.AuthorName] = true
		res.Created++
	}

	return res, nil
}

func hasProfile(profiles []domain.Profile, fullName string) bool {
	for _, p := range profiles {
		if p.FullName == fullName {
			return true
		}
	}
	return false
}
