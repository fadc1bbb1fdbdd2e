package web

import (
	"net/http"

	"github.com/vbonduro/portfolio/internal/contact"
	"github.com/vbonduro/portfolio/internal/site"
)

var indexFiles = []string{"base.html", "pages/index.html", "partials/contact_form.html"}

type indexView struct {
	*site.Page
	Form *contact.Form
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := s.loader.Load(r.Context())
	if err := s.renderPage(w, indexView{Page: page, Form: &contact.Form{}}, indexFiles...); err != nil {
		s.logger.Error("render page error", "page", "index", "error", err)
	}
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	form := &contact.Form{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}
	form.Submit(r.Context(), s.api)
	if form.Failed() {
		s.logger.Warn("contact submission failed", "error", form.Error)
	}

	// HTMX swaps only the form.
	if isHTMX(r) {
		if err := s.renderPartial(w, "contact_form", form, "partials/contact_form.html"); err != nil {
			s.logger.Error("render partial error", "partial", "contact_form", "error", err)
		}
		return
	}

	page := s.loader.Load(r.Context())
	if err := s.renderPage(w, indexView{Page: page, Form: form}, indexFiles...); err != nil {
		s.logger.Error("render page error", "page", "index", "error", err)
	}
}
