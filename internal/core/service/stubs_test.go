package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nestmart/shop-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[int64]*domain.User
	nextID  int64
	findErr error // if set, FindByEmail returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubProductRepo struct {
	byID      map[int64]*domain.Product
	nextID    int64
	createErr error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[int64]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *p
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubIdempotency struct {
	keys       map[string]int64
	pending    map[string]bool
	lookupErr  error
	reserveErr error
	released   int
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]int64), pending: make(map[string]bool)}
}

func (s *stubIdempotency) Lookup(_ context.Context, scope, key string) (int64, bool, error) {
	if s.lookupErr != nil {
		return 0, false, s.lookupErr
	}
	id, ok := s.keys[scope+"|"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Reserve(_ context.Context, scope, key string) (bool, error) {
	if s.reserveErr != nil {
		return false, s.reserveErr
	}
	k := scope + "|" + key
	if _, ok := s.keys[k]; ok || s.pending[k] {
		return false, nil
	}
	s.pending[k] = true
	return true, nil
}

func (s *stubIdempotency) Remember(_ context.Context, scope, key string, id int64) error {
	k := scope + "|" + key
	delete(s.pending, k)
	s.keys[k] = id
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, scope, key string) error {
	s.released++
	delete(s.pending, scope+"|"+key)
	return nil
}

// ---------------------------------------------------------------------------
// Crypto stubs
// ---------------------------------------------------------------------------

// stubHasher is a reversible stand-in for the real hasher; it only records
// how it was called.
type stubHasher struct {
	mu          sync.Mutex
	verifyCalls int
	verifyErr   error
}

func (h *stubHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "hashed:" + password, nil
}

func (h *stubHasher) Verify(_ context.Context, password, encoded string) (bool, error) {
	h.mu.Lock()
	h.verifyCalls++
	h.mu.Unlock()
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	if !strings.HasPrefix(encoded, "hashed:") {
		return false, errors.New("unknown hash format")
	}
	return encoded == "hashed:"+password, nil
}

type stubIssuer struct {
	last domain.Identity
	err  error
}

func (s *stubIssuer) Issue(id domain.Identity) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.last = id
	return "token-for-" + id.Username, nil
}
