package admin

import (
	"context"
	"sync"

	"github.com/vbonduro/portfolio/internal/domain"
)

type Tab string

const (
	TabProfile      Tab = "profile"
	TabVentures     Tab = "ventures"
	TabTestimonials Tab = "testimonials"
	TabMessages     Tab = "messages"
)

// Tabs lists the console tabs in display order.
var Tabs = []Tab{TabProfile, TabVentures, TabTestimonials, TabMessages}

// ParseTab returns the tab named s, or TabProfile when s names no tab.
func ParseTab(s string) Tab {
	for _, t := range Tabs {
		if string(t) == s {
			return t
		}
	}
	return TabProfile
}

// API is everything the console needs from the remote API. It is satisfied by
// *apiclient.Client.
type API interface {
	profileAPI
	messagesAPI
	Ventures(ctx context.Context, token string) ([]domain.Venture, error)
	CreateVenture(ctx context.Context, token string, v domain.Venture) (domain.Venture, error)
	UpdateVenture(ctx context.Context, token string, v domain.Venture) (domain.Venture, error)
	DeleteVenture(ctx context.Context, token string, id int64) error
	Testimonials(ctx context.Context, token string) ([]domain.Testimonial, error)
	CreateTestimonial(ctx context.Context, token string, t domain.Testimonial) (domain.Testimonial, error)
	UpdateTestimonial(ctx context.Context, token string, t domain.Testimonial) (domain.Testimonial, error)
	DeleteTestimonial(ctx context.Context, token string, id int64) error
}

// Console is the admin state for one browser: the credential, the active tab
// and one editor per tab.
type Console struct {
	mu    sync.Mutex
	token string
	tab   Tab

	Profile      *ProfileEditor
	Ventures     *Editor[domain.Venture]
	Testimonials *Editor[domain.Testimonial]
	Messages     *MessageList
}

func NewConsole(api API) *Console {
	return &Console{
		tab:          TabProfile,
		Profile:      NewProfileEditor(api),
		Ventures:     NewEditor[domain.Venture](ventureResource{api}),
		Testimonials: NewEditor[domain.Testimonial](testimonialResource{api}),
		Messages:     NewMessageList(api),
	}
}

// Token is the credential attached to every admin API call. It is not
// verified until a call fails.
func (c *Console) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Console) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Console) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// Show switches to tab and (re)loads its editor, discarding unsaved edits.
func (c *Console) Show(ctx context.Context, tab Tab) {
	c.mu.Lock()
	c.tab = tab
	token := c.token
	c.mu.Unlock()

	switch tab {
	case TabVentures:
		c.Ventures.Load(ctx, token)
	case TabTestimonials:
		c.Testimonials.Load(ctx, token)
	case TabMessages:
		c.Messages.Load(ctx, token)
	default:
		c.Profile.Load(ctx, token)
	}
}

type ventureResource struct{ api API }

func (r ventureResource) List(ctx context.Context, token string) ([]domain.Venture, error) {
	return r.api.Ventures(ctx, token)
}

func (r ventureResource) Create(ctx context.Context, token string, v domain.Venture) (domain.Venture, error) {
	return r.api.CreateVenture(ctx, token, v)
}

func (r ventureResource) Update(ctx context.Context, token string, v domain.Venture) (domain.Venture, error) {
	return r.api.UpdateVenture(ctx, token, v)
}

func (r ventureResource) Delete(ctx context.Context, token string, id int64) error {
	return r.api.DeleteVenture(ctx, token, id)
}

type testimonialResource struct{ api API }

func (r testimonialResource) List(ctx context.Context, token string) ([]domain.Testimonial, error) {
	return r.api.Testimonials(ctx, token)
}

func (r testimonialResource) Create(ctx context.Context, token string, t domain.Testimonial) (domain.Testimonial, error) {
	return r.api.CreateTestimonial(ctx, token, t)
}

func (r testimonialResource) Update(ctx context.Context, token string, t domain.Testimonial) (domain.Testimonial, error) {
	return r.api.UpdateTestimonial(ctx, token, t)
}

func (r testimonialResource) Delete(ctx context.Context, token string, id int64) error {
	return r.api.DeleteTestimonial(ctx, token, id)
}
