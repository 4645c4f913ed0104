package usecase_test

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"devconnector-api/internal/domain"
)

// memoryStore implements both repositories over maps. Every method holds the
// same lock, so each call is atomic the way a single SQL statement is.
type memoryStore struct {
	mu       sync.Mutex
	users    map[string]domain.User
	profiles map[string]*domain.Profile // by user id
	seq      int
}

func newMemoryStore(users ...domain.User) *memoryStore {
	s := &memoryStore{
		users:    map[string]domain.User{},
		profiles: map[string]*domain.Profile{},
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

func (s *memoryStore) joined(p *domain.Profile) *domain.Profile {
	cp := *p
	cp.Skills = append([]string{}, p.Skills...)
	cp.Experience = domain.NewExperiences(p.Experience.Items()...)
	if u, ok := s.users[p.UserID]; ok {
		cp.User = &domain.UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return &cp
}

func (s *memoryStore) GetByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.joined(p), nil
}

func (s *memoryStore) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.ID == id {
			return s.joined(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memoryStore) List(_ context.Context) ([]domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, *s.joined(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) Upsert(_ context.Context, f domain.ProfileFields) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[f.UserID]
	if !ok {
		s.seq++
		p = &domain.Profile{ID: "profile-" + strconv.Itoa(s.seq), UserID: f.UserID, CreatedAt: time.Now()}
		s.profiles[f.UserID] = p
	}
	p.Status = f.Status
	p.Skills = append([]string{}, f.Skills...)
	set(&p.Company, f.Company)
	set(&p.Website, f.Website)
	set(&p.Location, f.Location)
	set(&p.Bio, f.Bio)
	set(&p.GitHubUsername, f.GitHubUsername)
	set(&p.Social.YouTube, f.Social.YouTube)
	set(&p.Social.Facebook, f.Social.Facebook)
	set(&p.Social.Twitter, f.Social.Twitter)
	set(&p.Social.Instagram, f.Social.Instagram)
	set(&p.Social.LinkedIn, f.Social.LinkedIn)
	p.UpdatedAt = time.Now()
	return s.joined(p), nil
}

func (s *memoryStore) MutateExperience(_ context.Context, userID string, fn func(*domain.Experiences) error) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	list := domain.NewExperiences(p.Experience.Items()...)
	if err := fn(&list); err != nil {
		return nil, err
	}
	p.Experience = list
	return s.joined(p), nil
}

func (s *memoryStore) DeleteByUserID(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.profiles, userID)
	return nil
}

// userRepo view over the same store.
type memoryUsers struct{ s *memoryStore }

func (m memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.users[user.ID] = *user
	return nil
}

func (m memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m memoryUsers) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.s.users, id)
	return nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
