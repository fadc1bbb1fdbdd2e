package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vbonduro/portfolio/internal/admin"
	"github.com/vbonduro/portfolio/internal/domain"
)

const (
	sessionCookie = "portfolio_session"
	// tokenCookie is the durable browser-side copy of the admin credential.
	tokenCookie    = "admin_token"
	tokenCookieAge = 365 * 24 * 60 * 60
)

var (
	adminFiles = []string{
		"base.html", "pages/admin.html", "partials/admin_panel.html",
		"partials/admin_profile.html", "partials/admin_ventures.html",
		"partials/admin_testimonials.html", "partials/admin_messages.html",
	}
	panelFiles = adminFiles[2:]
)

type adminView struct {
	Console *admin.Console
	Tab     admin.Tab
	Tabs    []admin.Tab
	Token   string
}

// console returns the admin console for this browser, starting a session
// when there is none. A new session picks the token up from its cookie.
func (s *Server) console(w http.ResponseWriter, r *http.Request) *admin.Console {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if con, ok := s.sessions.Get(c.Value); ok {
			return con
		}
	}

	id, con := s.sessions.Create()
	s.logger.Debug("admin session started", "sessions", s.sessions.Len())
	if c, err := r.Cookie(tokenCookie); err == nil {
		if token, err := url.QueryUnescape(c.Value); err == nil {
			con.SetToken(token)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/admin",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return con
}

func (s *Server) setTokenCookie(w http.ResponseWriter, token string) {
	c := &http.Cookie{
		Name:     tokenCookie,
		Value:    url.QueryEscape(token),
		Path:     "/admin",
		MaxAge:   tokenCookieAge,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	}
	if token == "" {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}

// renderAdmin renders the console on tab: the panel alone for HTMX requests,
// the whole page otherwise.
func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, con *admin.Console, tab admin.Tab) {
	view := adminView{Console: con, Tab: tab, Tabs: admin.Tabs, Token: con.Token()}
	if isHTMX(r) {
		if err := s.renderPartial(w, "admin_panel", view, panelFiles...); err != nil {
			s.logger.Error("render partial error", "partial", "admin_panel", "error", err)
		}
		return
	}
	if err := s.renderPage(w, view, adminFiles...); err != nil {
		s.logger.Error("render page error", "page", "admin", "error", err)
	}
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	con := s.console(w, r)
	tab := admin.ParseTab(r.URL.Query().Get("tab"))
	con.Show(r.Context(), tab)
	s.renderAdmin(w, r, con, tab)
}

func (s *Server) handleSaveToken(w http.ResponseWriter, r *http.Request) {
	con := s.console(w, r)
	token := strings.TrimSpace(r.FormValue("token"))
	con.SetToken(token)
	s.setTokenCookie(w, token)
	s.logger.Info("admin token updated", "set", token != "")

	http.Redirect(w, r, "/admin?tab="+url.QueryEscape(string(con.Tab())), http.StatusSeeOther)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	con := s.console(w, r)
	id, _ := strconv.ParseInt(r.FormValue("id"), 10, 64)
	p := domain.Profile{
		ID:          id,
		FullName:    r.FormValue("full_name"),
		Title:       r.FormValue("title"),
		Location:    r.FormValue("location"),
		BioShort:    r.FormValue("bio_short"),
		BioLong:     r.FormValue("bio_long"),
		HeadshotURL: r.FormValue("headshot_url"),
		LinkedInURL: r.FormValue("linkedin_url"),
	}
	if err := con.Profile.Save(r.Context(), con.Token(), p); err != nil {
		s.logger.Warn("failed to save profile", "error", err)
	}
	s.renderAdmin(w, r, con, admin.TabProfile)
}

func ventureFromForm(r *http.Request) domain.Venture {
	return domain.Venture{
		Name:        r.FormValue("name"),
		Role:        r.FormValue("role"),
		Description: r.FormValue("description"),
		Website:     r.FormValue("website"),
		LogoURL:     r.FormValue("logo_url"),
		StartYear:   admin.ParseYear(r.FormValue("start_year")),
		EndYear:     admin.ParseYear(r.FormValue("end_year")),
		Order:       admin.ParseOrder(r.FormValue("order")),
	}
}

func (s *Server) handleCreateVenture(w http.ResponseWriter, r *http.Request) {
	con := s.console(w, r)
	if err := con.Ventures.Create(r.Context(), con.Token(), ventureFromForm(r)); err != nil {
		s.logger.Warn("failed to create venture", "error", err)
	}
	s.renderAdmin(w, r, con, admin.TabVentures)
}

func (s *Server) handleSaveVenture(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid venture id", http.StatusBadRequest)
		return
	}
	con := s.console(w, r)
	v := ventureFromForm(r)
	v.ID = id
	if err := con.Ventures.Save(r.Context(), con.Token(), v); err != nil {
		s.logger.Warn("failed to save venture", "id", id, "error", err)
	}
	s.renderAdmin(w, r, con, admin.TabVentures)
}

func (s *Server) handleDeleteVenture(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid venture id", http.StatusBadRequest)
		return
	}
	con := s.console(w, r)
	if err := con.Ventures.Delete(r.Context(), con.Token(), id); err != nil {
		s.logger.Warn("failed to delete venture", "id", id, "error", err)
	}
	s.renderAdmin(w, r, con, admin.TabVentures)
}

func testimonialFromForm(r *http.Request) domain.Testimonial {
	return domain.Testimonial{
		AuthorName:  r.FormValue("author_name"),
		AuthorTitle: r.FormValue("author_title"),
		Content:     r.FormValue("content"),
		Company:     r.FormValue("company"),
		Order:       admin.ParseOrder(r.FormValue("order")),
	}
}

func (s *Server) handleCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	con := s.console(w, r)
	if err := con.Testimonials.Create(r.Context(), con.Token(), testimonialFromForm(r)); err != nil {
		s.logger.Warn("failed to create testimonial", "error", err)
	}
	s.renderAdmin(w, r, con, admin.TabTestimonials)
}

func (s *Server) handleSaveTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid testimonial id", http.StatusBadRequest)
		return
	}
	con := s.console(w, r)
	t := testimonialFromForm(r)
	t.ID = id
	if err := con.Testimonials.Save(r.Context(), con.Token(), t); err != nil {
		s.logger.Warn("failed to save testimonial", "id", id, "error", err)
	}
	s.renderAdmin(w, r, con, admin.TabTestimonials)
}

func (s *Server) handleDeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid testimonial id", http.StatusBadRequest)
		return
	}
	con := s.console(w, r)
	if err := con.Testimonials.Delete(r.Context(), con.Token(), id); err != nil {
		s.logger.Warn("failed to delete testimonial", "id", id, "error", err)
	}
	s.renderAdmin(w, r, con, admin.TabTestimonials)
}
