package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/portfolio/internal/apiclient"
)

// fakeAPI serves fixed collections and records the Authorization header of
// every request.
type fakeAPI struct {
	mu    sync.Mutex
	auths []string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /profile/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_, _ = w.Write([]byte(`[{"id":1,"full_name":"Ian Ward"}]`))
	})
	mux.HandleFunc("GET /ventures/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_, _ = w.Write([]byte(`[{"id":3,"name":"Maindo Digital","start_year":2019,"end_year":null,"order":1}]`))
	})
	mux.HandleFunc("GET /testimonials/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_, _ = w.Write([]byte(`[{"id":4,"author_name":"Founder"}]`))
	})
	mux.HandleFunc("GET /contact/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_, _ = w.Write([]byte(`[{"id":8,"name":"Ada","email":"ada@example.com","message":"Hi","created_at":"2025-01-02T03:04:05Z"}]`))
	})
	return mux
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auths = append(f.auths, r.Header.Get("Authorization"))
}

func (f *fakeAPI) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.auths) == 0 {
		return ""
	}
	return f.auths[len(f.auths)-1]
}

func newTestConsole(t *testing.T) (*Console, *fakeAPI) {
	t.Helper()
	fake := &fakeAPI{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewConsole(apiclient.New(srv.URL)), fake
}

func TestParseTab(t *testing.T) {
	assert.Equal(t, TabVentures, ParseTab("ventures"))
	assert.Equal(t, TabMessages, ParseTab("messages"))
	assert.Equal(t, TabProfile, ParseTab(""))
	assert.Equal(t, TabProfile, ParseTab("settings"))
}

func TestConsoleShowLoadsEachTab(t *testing.T) {
	c, _ := newTestConsole(t)
	ctx := context.Background()

	assert.Equal(t, TabProfile, c.Tab())

	c.Show(ctx, TabProfile)
	assert.Equal(t, "Ian Ward", c.Profile.Profile().FullName)

	c.Show(ctx, TabVentures)
	assert.Equal(t, TabVentures, c.Tab())
	require.Len(t, c.Ventures.Rows(), 1)
	assert.Equal(t, "Maindo Digital", c.Ventures.Rows()[0].Name)

	c.Show(ctx, TabTestimonials)
	require.Len(t, c.Testimonials.Rows(), 1)

	c.Show(ctx, TabMessages)
	require.Len(t, c.Messages.Rows(), 1)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), c.Messages.Rows()[0].CreatedAt)
}

func TestConsoleAttachesToken(t *testing.T) {
	c, fake := newTestConsole(t)

	c.Show(context.Background(), TabVentures)
	assert.Equal(t, "", fake.lastAuth())

	c.SetToken("s3cret")
	assert.Equal(t, "s3cret", c.Token())

	c.Show(context.Background(), TabMessages)
	assert.Equal(t, "Token s3cret", fake.lastAuth())
}

func TestSessionsCreateAndGet(t *testing.T) {
	s := NewSessions(apiclient.New("http://127.0.0.1:1"), time.Hour)

	id, c := s.Create()
	require.NotEmpty(t, id)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, c, got)

	_, ok = s.Get("unknown")
	assert.False(t, ok)
	_, ok = s.Get("")
	assert.False(t, ok)
}

func TestSessionsExpire(t *testing.T) {
	s := NewSessions(apiclient.New("http://127.0.0.1:1"), time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	id, _ := s.Create()

	now = now.Add(30 * time.Second)
	_, ok := s.Get(id)
	require.True(t, ok, "session should still be live")

	// Get extended the expiry, so another 45s is still within the ttl.
	now = now.Add(45 * time.Second)
	_, ok = s.Get(id)
	require.True(t, ok, "session expiry should slide on use")

	now = now.Add(2 * time.Minute)
	_, ok = s.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestSessionsCreateSweepsExpired(t *testing.T) {
	s := NewSessions(apiclient.New("http://127.0.0.1:1"), time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Create()
	s.Create()
	assert.Equal(t, 2, s.Len())

	now = now.Add(time.Hour)
	s.Create()
	assert.Equal(t, 1, s.Len())
}
