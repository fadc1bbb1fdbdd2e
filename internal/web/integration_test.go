package web_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/portfolio/internal/admin"
	"github.com/vbonduro/portfolio/internal/apiclient"
	"github.com/vbonduro/portfolio/internal/domain"
	"github.com/vbonduro/portfolio/internal/site"
	"github.com/vbonduro/portfolio/internal/web"
	"github.com/vbonduro/portfolio/internal/web/templates"
)

// fakeAPI is an in-memory stand-in for the portfolio REST API. Writes and the
// admin-only listings require "Token <token>" when token is set.
type fakeAPI struct {
	mu           sync.Mutex
	token        string
	nextID       int64
	profile      *domain.Profile
	ventures     []domain.Venture
	testimonials []domain.Testimonial
	messages     []domain.ContactMessage
	contacts     []map[string]any
	failing      map[string]bool
	raw          map[string]string
	auths        []string
}

func newFakeAPI() *fakeAPI {
	start := 2019
	return &fakeAPI{
		nextID:  100,
		profile: &domain.Profile{ID: 1, FullName: "Grace Hopper", Title: "Rear Admiral"},
		ventures: []domain.Venture{
			{ID: 3, Name: "Compiler Co", Role: "Founder", StartYear: &start, Order: 1},
		},
		testimonials: []domain.Testimonial{
			{ID: 4, AuthorName: "Ada Lovelace", Company: "Analytical Engines", Content: "Visionary."},
		},
		messages: []domain.ContactMessage{
			{ID: 8, Name: "Alan", Email: "alan@example.com", Message: "Hello there", CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		},
		failing: make(map[string]bool),
		raw:     make(map[string]string),
	}
}

func (f *fakeAPI) fail(resource string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[resource] = true
}

// respondWith makes every request for resource answer 200 with body as is.
func (f *fakeAPI) respondWith(resource, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raw[resource] = body
}

func (f *fakeAPI) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.auths) == 0 {
		return ""
	}
	return f.auths[len(f.auths)-1]
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /profile/primary/", func(w http.ResponseWriter, r *http.Request) {
		if f.check(w, r, "profile", false) {
			f.reply(w, http.StatusOK, f.profile)
		}
	})
	mux.HandleFunc("GET /profile/{$}", func(w http.ResponseWriter, r *http.Request) {
		if f.check(w, r, "profile", true) {
			f.reply(w, http.StatusOK, []domain.Profile{*f.profile})
		}
	})
	mux.HandleFunc("PUT /profile/{id}/", func(w http.ResponseWriter, r *http.Request) {
		if !f.check(w, r, "profile", true) {
			return
		}
		var p domain.Profile
		_ = json.NewDecoder(r.Body).Decode(&p)
		f.mu.Lock()
		p.ID = f.profile.ID
		f.profile = &p
		f.mu.Unlock()
		f.reply(w, http.StatusOK, p)
	})

	mux.HandleFunc("GET /ventures/{$}", func(w http.ResponseWriter, r *http.Request) {
		if f.check(w, r, "ventures", false) {
			f.reply(w, http.StatusOK, f.ventures)
		}
	})
	mux.HandleFunc("POST /ventures/{$}", func(w http.ResponseWriter, r *http.Request) {
		if !f.check(w, r, "ventures", true) {
			return
		}
		var v domain.Venture
		_ = json.NewDecoder(r.Body).Decode(&v)
		f.mu.Lock()
		f.nextID++
		v.ID = f.nextID
		f.ventures = append(f.ventures, v)
		f.mu.Unlock()
		f.reply(w, http.StatusCreated, v)
	})
	mux.HandleFunc("PUT /ventures/{id}/", func(w http.ResponseWriter, r *http.Request) {
		if !f.check(w, r, "ventures", true) {
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var v domain.Venture
		_ = json.NewDecoder(r.Body).Decode(&v)
		v.ID = id
		f.mu.Lock()
		for i := range f.ventures {
			if f.ventures[i].ID == id {
				f.ventures[i] = v
			}
		}
		f.mu.Unlock()
		f.reply(w, http.StatusOK, v)
	})
	mux.HandleFunc("DELETE /ventures/{id}/", func(w http.ResponseWriter, r *http.Request) {
		if !f.check(w, r, "ventures", true) {
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		f.mu.Lock()
		kept := f.ventures[:0]
		for _, v := range f.ventures {
			if v.ID != id {
				kept = append(kept, v)
			}
		}
		f.ventures = kept
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /testimonials/{$}", func(w http.ResponseWriter, r *http.Request) {
		if f.check(w, r, "testimonials", false) {
			f.reply(w, http.StatusOK, f.testimonials)
		}
	})
	mux.HandleFunc("POST /testimonials/{$}", func(w http.ResponseWriter, r *http.Request) {
		if !f.check(w, r, "testimonials", true) {
			return
		}
		var t domain.Testimonial
		_ = json.NewDecoder(r.Body).Decode(&t)
		f.mu.Lock()
		f.nextID++
		t.ID = f.nextID
		f.testimonials = append(f.testimonials, t)
		f.mu.Unlock()
		f.reply(w, http.StatusCreated, t)
	})

	mux.HandleFunc("GET /contact/{$}", func(w http.ResponseWriter, r *http.Request) {
		if f.check(w, r, "messages", true) {
			f.reply(w, http.StatusOK, f.messages)
		}
	})
	mux.HandleFunc("POST /contact/{$}", func(w http.ResponseWriter, r *http.Request) {
		if !f.check(w, r, "contact", false) {
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.contacts = append(f.contacts, body)
		f.mu.Unlock()
		f.reply(w, http.StatusCreated, map[string]any{"id": 1})
	})
	return mux
}

// check records the request and writes an error response when the resource
// is marked failing or the credential is wrong. It reports whether the
// handler should continue.
func (f *fakeAPI) check(w http.ResponseWriter, r *http.Request, resource string, needsAuth bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	auth := r.Header.Get("Authorization")
	f.auths = append(f.auths, auth)
	if f.failing[resource] {
		w.WriteHeader(http.StatusInternalServerError)
		return false
	}
	if body, ok := f.raw[resource]; ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
		return false
	}
	if needsAuth && f.token != "" && auth != "Token "+f.token {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	return true
}

func (f *fakeAPI) reply(w http.ResponseWriter, status int, v any) {
	f.mu.Lock()
	data, _ := json.Marshal(v)
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// newTestServer wires a real web.Server to the fake API.
func newTestServer(t *testing.T, api *fakeAPI) *httptest.Server {
	t.Helper()
	apiSrv := httptest.NewServer(api.handler())
	t.Cleanup(apiSrv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := apiclient.New(apiSrv.URL + "/")
	content, err := site.NewContentSource("", logger)
	require.NoError(t, err)

	srv := httptest.NewServer(web.NewServer(
		site.NewLoader(client, content, logger),
		client,
		admin.NewSessions(client, time.Hour),
		templates.FS,
		logger,
		web.Options{RateLimit: 1000},
	))
	t.Cleanup(srv.Close)
	return srv
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func get(t *testing.T, c *http.Client, u string) (int, string) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	return resp.StatusCode, readBody(t, resp)
}

func htmx(t *testing.T, c *http.Client, method, u string, form url.Values) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, u, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	resp, err := c.Do(req)
	require.NoError(t, err)
	return resp.StatusCode, readBody(t, resp)
}

func TestIntegration_PublicPage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	srv := newTestServer(t, newFakeAPI())

	status, body := get(t, http.DefaultClient, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<title>Grace Hopper — Rear Admiral</title>")
	assert.Contains(t, body, ">GH<")
	assert.Contains(t, body, "Compiler Co")
	assert.Contains(t, body, "2019 – Present")
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "Analytical Engines")
	assert.Contains(t, body, "© "+strconv.Itoa(time.Now().Year())+" Grace Hopper")
	assert.NotContains(t, body, "Maindo Digital")
}

func TestIntegration_PublicPageFallsBackPerResource(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := newFakeAPI()
	api.fail("ventures")
	srv := newTestServer(t, api)

	status, body := get(t, http.DefaultClient, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Grace Hopper")
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "Maindo Digital")
	assert.NotContains(t, body, "Compiler Co")
	assert.NotContains(t, body, "Internal Server Error")
}

func TestIntegration_PublicPageFallsBackOnNonArray(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := newFakeAPI()
	api.respondWith("ventures", "null")
	api.respondWith("testimonials", `{"detail":"unavailable"}`)
	srv := newTestServer(t, api)

	status, body := get(t, http.DefaultClient, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Grace Hopper")
	assert.Contains(t, body, "Maindo Digital")
	assert.Contains(t, body, "Founder, Cape Town")
	assert.NotContains(t, body, "Ada Lovelace")
}

// section returns the markup of the page section with the given id.
func section(t *testing.T, body, id string) string {
	t.Helper()
	start := strings.Index(body, `<section id="`+id+`"`)
	require.GreaterOrEqual(t, start, 0, "section %q not found", id)
	rest := body[start:]
	end := strings.Index(rest, "</section>")
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}

func TestIntegration_PublicPageBios(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := newFakeAPI()
	api.profile.BioShort = "Builds compilers."
	api.profile.BioLong = "Spent four decades teaching machines to read."
	srv := newTestServer(t, api)

	status, body := get(t, http.DefaultClient, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)

	hero := body[strings.Index(body, `<header class="hero">`):strings.Index(body, "</header>")]
	assert.Contains(t, hero, "Builds compilers.")
	assert.Contains(t, hero, `<a href="#contact" class="cta">Work with Grace</a>`)

	about := section(t, body, "about")
	assert.Contains(t, about, "Spent four decades teaching machines to read.")
	assert.NotContains(t, about, "Builds compilers.")
	assert.Contains(t, about, `<span class="badge headshot" aria-label="Grace Hopper">GH</span>`)
	assert.NotContains(t, about, "<img")
}

func TestIntegration_PublicPageShortBioAndHeadshot(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := newFakeAPI()
	api.profile.BioShort = "Builds compilers."
	api.profile.HeadshotURL = "https://example.com/grace.jpg"
	srv := newTestServer(t, api)

	status, body := get(t, http.DefaultClient, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)

	about := section(t, body, "about")
	assert.Contains(t, about, "<p>Builds compilers.</p>")
	assert.Contains(t, about, `src="https://example.com/grace.jpg"`)
	assert.NotContains(t, about, "badge headshot")
}

func TestIntegration_PublicPageAllResourcesDown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := newFakeAPI()
	api.fail("profile")
	api.fail("ventures")
	api.fail("testimonials")
	srv := newTestServer(t, api)

	status, body := get(t, http.DefaultClient, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Ian Ward")
	assert.Contains(t, body, "Maindo Digital")
	assert.Contains(t, body, "Stealth Startup")
}

func TestIntegration_ContactSuccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := newFakeAPI()
	srv := newTestServer(t, api)

	status, body := htmx(t, http.DefaultClient, http.MethodPost, srv.URL+"/contact", url.Values{
		"name":    {"Alan"},
		"email":   {"alan@example.com"},
		"message": {"Let's talk"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Your message has been sent")
	assert.NotContains(t, body, "alan@example.com")
	assert.NotContains(t, body, "<html")

	require.Len(t, api.contacts, 1)
	assert.Equal(t, map[string]any{
		"name":    "Alan",
		"email":   "alan@example.com",
		"message": "Let's talk",
	}, api.contacts[0])
	assert.Empty(t, api.lastAuth())
}

func TestIntegration_ContactFailureKeepsFields(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := newFakeAPI()
	api.fail("contact")
	srv := newTestServer(t, api)

	status, body := htmx(t, http.DefaultClient, http.MethodPost, srv.URL+"/contact", url.Values{
		"name":    {"Alan"},
		"email":   {"alan@example.com"},
		"message": {"Let's talk"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Failed to send message")
	assert.Contains(t, body, `value="alan@example.com"`)
}

func TestIntegration_ContactWithoutHTMXRendersPage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	srv := newTestServer(t, newFakeAPI())

	resp, err := http.PostForm(srv.URL+"/contact", url.Values{
		"name": {"Alan"}, "email": {"alan@example.com"}, "message": {"Hi"},
	})
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<html")
	assert.Contains(t, body, "Your message has been sent")
}

func TestIntegration_AdminTokenAttachedAndRemembered(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := newFakeAPI()
	api.token = "s3cret"
	srv := newTestServer(t, api)
	browser := newBrowser(t)

	// Without a token the API rejects the listing and the console says so.
	status, body := get(t, browser, srv.URL+"/admin?tab=messages")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "401 Unauthorized")

	resp, err := browser.PostForm(srv.URL+"/admin/token", url.Values{"token": {"s3cret"}})
	require.NoError(t, err)
	body = readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Token s3cret", api.lastAuth())
	assert.Contains(t, body, "Hello there")

	// A fresh session with only the durable cookie picks the token back up.
	u, err := url.Parse(srv.URL + "/admin")
	require.NoError(t, err)
	var tokenCookie *http.Cookie
	for _, c := range browser.Jar.Cookies(u) {
		if c.Name == "admin_token" {
			tokenCookie = c
		}
	}
	require.NotNil(t, tokenCookie)

	returning := newBrowser(t)
	returning.Jar.SetCookies(u, []*http.Cookie{{Name: "admin_token", Value: tokenCookie.Value}})
	status, body = get(t, returning, srv.URL+"/admin?tab=messages")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Token s3cret", api.lastAuth())
	assert.Contains(t, body, "alan@example.com")
}

func TestIntegration_AdminVentureCRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := newFakeAPI()
	srv := newTestServer(t, api)
	browser := newBrowser(t)

	status, body := htmx(t, browser, http.MethodGet, srv.URL+"/admin?tab=ventures", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Compiler Co")
	assert.NotContains(t, body, "<html")

	status, body = htmx(t, browser, http.MethodPost, srv.URL+"/admin/ventures", url.Values{
		"name":       {"Acme"},
		"role":       {"CEO"},
		"start_year": {"2020"},
		"end_year":   {""},
		"order":      {"x"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `value="Acme"`)
	require.Len(t, api.ventures, 2)
	created := api.ventures[1]
	assert.Equal(t, "Acme", created.Name)
	require.NotNil(t, created.StartYear)
	assert.Equal(t, 2020, *created.StartYear)
	assert.Nil(t, created.EndYear)
	assert.Equal(t, 0, created.Order)

	// Newly created records are listed first.
	assert.Less(t, strings.Index(body, "/admin/ventures/"+strconv.FormatInt(created.ID, 10)), strings.Index(body, "/admin/ventures/3"))

	status, _ = htmx(t, browser, http.MethodPost, srv.URL+"/admin/ventures/3", url.Values{
		"name":       {"Compiler Co"},
		"start_year": {"2019"},
		"end_year":   {"2024"},
		"order":      {"1"},
	})
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, api.ventures[0].EndYear)
	assert.Equal(t, 2024, *api.ventures[0].EndYear)

	status, body = htmx(t, browser, http.MethodDelete, srv.URL+"/admin/ventures/3", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body, "Compiler Co")
	assert.Contains(t, body, "Acme")
	require.Len(t, api.ventures, 1)
}

func TestIntegration_AdminTestimonialCreateFailureKeepsDraft(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := newFakeAPI()
	srv := newTestServer(t, api)
	browser := newBrowser(t)

	_, _ = htmx(t, browser, http.MethodGet, srv.URL+"/admin?tab=testimonials", nil)
	api.fail("testimonials")

	status, body := htmx(t, browser, http.MethodPost, srv.URL+"/admin/testimonials", url.Values{
		"author_name": {"Linus"},
		"content":     {"Solid."},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "500 Internal Server Error")
	assert.Contains(t, body, `value="Linus"`)
	assert.Contains(t, body, "Ada Lovelace")
}

func TestIntegration_AdminProfileSave(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	api := newFakeAPI()
	srv := newTestServer(t, api)
	browser := newBrowser(t)

	_, _ = htmx(t, browser, http.MethodGet, srv.URL+"/admin?tab=profile", nil)
	status, body := htmx(t, browser, http.MethodPost, srv.URL+"/admin/profile", url.Values{
		"id":        {"1"},
		"full_name": {"Grace B. Hopper"},
		"title":     {"Rear Admiral"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Saved")
	assert.Equal(t, "Grace B. Hopper", api.profile.FullName)
}

func TestIntegration_AdminInvalidID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	srv := newTestServer(t, newFakeAPI())

	status, _ := htmx(t, newBrowser(t), http.MethodDelete, srv.URL+"/admin/ventures/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestIntegration_HealthAndHeaders(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	srv := newTestServer(t, newFakeAPI())

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	_ = readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	_ = readBody(t, resp)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}
