package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vbonduro/portfolio/internal/domain"
)

func (c *Client) PrimaryProfile(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.Get(ctx, "/profile/primary/", "", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Profiles(ctx context.Context, token string) ([]domain.Profile, error) {
	var rows []domain.Profile
	if err := c.Get(ctx, "/profile/", token, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CreateProfile(ctx context.Context, token string, p domain.Profile) (domain.Profile, error) {
	var out domain.Profile
	err := c.Send(ctx, "/profile/", http.MethodPost, p, token, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, token string, p domain.Profile) (domain.Profile, error) {
	var out domain.Profile
	err := c.Send(ctx, fmt.Sprintf("/profile/%d/", p.ID), http.MethodPut, p, token, &out)
	return out, err
}

func (c *Client) Ventures(ctx context.Context, token string) ([]domain.Venture, error) {
	var rows []domain.Venture
	if err := c.Get(ctx, "/ventures/", token, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CreateVenture(ctx context.Context, token string, v domain.Venture) (domain.Venture, error) {
	var out domain.Venture
	err := c.Send(ctx, "/ventures/", http.MethodPost, v, token, &out)
	return out, err
}

func (c *Client) UpdateVenture(ctx context.Context, token string, v domain.Venture) (domain.Venture, error) {
	var out domain.Venture
	err := c.Send(ctx, fmt.Sprintf("/ventures/%d/", v.ID), http.MethodPut, v, token, &out)
	return out, err
}

func (c *Client) DeleteVenture(ctx context.Context, token string, id int64) error {
	return c.Send(ctx, fmt.Sprintf("/ventures/%d/", id), http.MethodDelete, nil, token, nil)
}

func (c *Client) Testimonials(ctx context.Context, token string) ([]domain.Testimonial, error) {
	var rows []domain.Testimonial
	if err := c.Get(ctx, "/testimonials/", token, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CreateTestimonial(ctx context.Context, token string, t domain.Testimonial) (domain.Testimonial, error) {
	var out domain.Testimonial
	err := c.Send(ctx, "/testimonials/", http.MethodPost, t, token, &out)
	return out, err
}

func (c *Client) UpdateTestimonial(ctx context.Context, token string, t domain.Testimonial) (domain.Testimonial, error) {
	var out domain.Testimonial
	err := c.Send(ctx, fmt.Sprintf("/testimonials/%d/", t.ID), http.MethodPut, t, token, &out)
	return out, err
}

func (c *Client) DeleteTestimonial(ctx context.Context, token string, id int64) error {
	return c.Send(ctx, fmt.Sprintf("/testimonials/%d/", id), http.MethodDelete, nil, token, nil)
}

// Messages lists contact-form submissions in the order the API returns them.
func (c *Client) Messages(ctx context.Context, token string) ([]domain.ContactMessage, error) {
	var rows []domain.ContactMessage
	if err := c.Get(ctx, "/contact/", token, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SubmitContact posts a public contact-form submission. No credential is sent
// and any 2xx response counts as success; the response body is ignored.
func (c *Client) SubmitContact(ctx context.Context, in domain.ContactInput) error {
	return c.Send(ctx, "/contact/", http.MethodPost, in, "", nil)
}
