package usecase_test

import (
	"context"
	"strconv"
	"sync"

	"devconnector-api/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Upsert(ctx context.Context, fields domain.ProfileFields) (*domain.Profile, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) MutateExperience(ctx context.Context, userID string, fn func(*domain.Experiences) error) (*domain.Profile, error) {
	args := m.Called(ctx, userID, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// recordingCache is a map-backed ProfileCache that remembers invalidations.
// Every invalidation bumps a generation; fills with an older token are dropped.
type recordingCache struct {
	mu          sync.Mutex
	profiles    map[string]*domain.Profile
	list        []domain.Profile
	hasList     bool
	invalidated []string
	userGen     map[string]int
	listGen     int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		profiles: map[string]*domain.Profile{},
		userGen:  map[string]int{},
	}
}

func (c *recordingCache) GetProfile(_ context.Context, userID string) (*domain.Profile, domain.CacheToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.profiles[userID]
	return p, domain.CacheToken(strconv.Itoa(c.userGen[userID])), ok
}

func (c *recordingCache) SetProfile(_ context.Context, userID string, token domain.CacheToken, profile *domain.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if string(token) != strconv.Itoa(c.userGen[userID]) {
		return
	}
	c.profiles[userID] = profile
}

func (c *recordingCache) GetList(context.Context) ([]domain.Profile, domain.CacheToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list, domain.CacheToken(strconv.Itoa(c.listGen)), c.hasList
}

func (c *recordingCache) SetList(_ context.Context, token domain.CacheToken, profiles []domain.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if string(token) != strconv.Itoa(c.listGen) {
		return
	}
	c.list, c.hasList = profiles, true
}

func (c *recordingCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.profiles, userID)
	c.list, c.hasList = nil, false
	c.userGen[userID]++
	c.listGen++
	c.invalidated = append(c.invalidated, userID)
}

type recordingPublisher struct {
	mu      sync.Mutex
	events  []domain.ProfileEvent
	ctxErrs []error
	bounded []bool
	err     error
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.ProfileEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	p.events = append(p.events, event)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	p.bounded = append(p.bounded, hasDeadline)
	return p.err
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.EventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
