package domain

import "time"

// Record is implemented by every API-owned record that the admin console edits.
type Record interface {
	RecordID() int64
}

type Profile struct {
	ID          int64  `json:"id,omitempty" yaml:"-" validate:"gt=0"`
	FullName    string `json:"full_name" yaml:"full_name" validate:"required"`
	Title       string `json:"title" yaml:"title"`
	Location    string `json:"location" yaml:"location"`
	BioShort    string `json:"bio_short" yaml:"bio_short"`
	BioLong     string `json:"bio_long" yaml:"bio_long"`
	HeadshotURL string `json:"headshot_url" yaml:"headshot_url"`
	LinkedInURL string `json:"linkedin_url" yaml:"linkedin_url"`
}

func (p Profile) RecordID() int64 { return p.ID }

type Venture struct {
	ID          int64  `json:"id,omitempty" yaml:"-" validate:"gt=0"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	Role        string `json:"role" yaml:"role"`
	Description string `json:"description" yaml:"description"`
	Website     string `json:"website" yaml:"website"`
	LogoURL     string `json:"logo_url" yaml:"logo_url"`
	StartYear   *int   `json:"start_year" yaml:"start_year"`
	EndYear     *int   `json:"end_year" yaml:"end_year"`
	Order       int    `json:"order" yaml:"order"`
}

func (v Venture) RecordID() int64 { return v.ID }

type Testimonial struct {
	ID          int64  `json:"id,omitempty" yaml:"-" validate:"gt=0"`
	AuthorName  string `json:"author_name" yaml:"author_name" validate:"required"`
	AuthorTitle string `json:"author_title" yaml:"author_title"`
	Content     string `json:"content" yaml:"content"`
	Company     string `json:"company" yaml:"company"`
	Order       int    `json:"order" yaml:"order"`
}

func (t Testimonial) RecordID() int64 { return t.ID }

// ContactMessage is append-only; this codebase only creates and lists them.
type ContactMessage struct {
	ID        int64     `json:"id" validate:"gt=0"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (m ContactMessage) RecordID() int64 { return m.ID }

// ContactInput is the exact payload POSTed by the public contact form.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
