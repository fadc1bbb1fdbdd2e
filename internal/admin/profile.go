package admin

import (
	"context"
	"sync"

	"github.com/vbonduro/portfolio/internal/domain"
)

// profileAPI is the subset of apiclient.Client the profile editor requires.
type profileAPI interface {
	Profiles(ctx context.Context, token string) ([]domain.Profile, error)
	CreateProfile(ctx context.Context, token string, p domain.Profile) (domain.Profile, error)
	UpdateProfile(ctx context.Context, token string, p domain.Profile) (domain.Profile, error)
}

// ProfileEditor edits the first profile the API returns, or an empty draft
// when there is none.
type ProfileEditor struct {
	mu      sync.Mutex
	api     profileAPI
	gen     uint64
	state   State
	profile domain.Profile
	saved   bool
	err     string
}

func NewProfileEditor(api profileAPI) *ProfileEditor {
	return &ProfileEditor{api: api, state: StateIdle}
}

func (e *ProfileEditor) Load(ctx context.Context, token string) {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.state = StateLoading
	e.saved = false
	e.err = ""
	e.mu.Unlock()

	rows, err := e.api.Profiles(ctx, token)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || ctx.Err() != nil {
		return
	}
	if err != nil {
		e.state = StateFailed
		e.err = err.Error()
		return
	}
	e.profile = domain.Profile{}
	if len(rows) > 0 {
		e.profile = rows[0]
	}
	e.state = StateLoaded
}

// Save updates the profile when it has an id and creates it otherwise. The
// edited values are kept on failure.
func (e *ProfileEditor) Save(ctx context.Context, token string, p domain.Profile) error {
	e.mu.Lock()
	e.profile = p
	e.saved = false
	e.mu.Unlock()

	var (
		updated domain.Profile
		err     error
	)
	if p.ID != 0 {
		updated, err = e.api.UpdateProfile(ctx, token, p)
	} else {
		updated, err = e.api.CreateProfile(ctx, token, p)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.err = err.Error()
		return err
	}
	e.profile = updated
	e.saved = true
	e.err = ""
	return nil
}

func (e *ProfileEditor) Profile() domain.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

func (e *ProfileEditor) Saved() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saved
}

func (e *ProfileEditor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *ProfileEditor) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}
