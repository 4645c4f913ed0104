package domain

import (
	"context"
	"time"
)

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

type Profile struct {
	ID             string       `json:"id"`
	UserID         string       `json:"-"`
	User           *UserSummary `json:"user,omitempty"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Status         string       `json:"status"`
	GitHubUsername string       `json:"githubusername,omitempty"`
	Skills         []string     `json:"skills"`
	Social         Social       `json:"social"`
	Experience     Experiences  `json:"experience"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// ProfileInput is the create/update request body. Skills arrives as a comma
// separated string.
type ProfileInput struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills"`
	YouTube        string `json:"youtube"`
	Facebook       string `json:"facebook"`
	Twitter        string `json:"twitter"`
	Instagram      string `json:"instagram"`
	LinkedIn       string `json:"linkedin"`
}

type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// SocialFields holds the social links supplied in one request; nil means
// "leave the stored value alone".
type SocialFields struct {
	YouTube   *string
	Facebook  *string
	Twitter   *string
	Instagram *string
	LinkedIn  *string
}

// ProfileFields is a normalized upsert. Status and Skills are always written;
// nil optional fields keep whatever the stored profile already has.
type ProfileFields struct {
	UserID         string
	Status         string
	Skills         []string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	GitHubUsername *string
	Social         SocialFields
}

// ProfileRepository reads return profiles joined with their owner's UserSummary
// and ErrNotFound for missing rows.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	GetByID(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	// Upsert creates the owner's profile or updates it in place, atomically.
	Upsert(ctx context.Context, fields ProfileFields) (*Profile, error)
	// MutateExperience runs fn against the owner's experience list while the
	// profile row is locked and persists the result when fn returns nil.
	MutateExperience(ctx context.Context, userID string, fn func(*Experiences) error) (*Profile, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// CacheToken is the invalidation generation observed by a cache miss. A fill
// carrying a token older than the latest invalidation is dropped, so a read
// that raced a write cannot repopulate the cache with the pre-write profile.
type CacheToken string

// ProfileCache fronts the public profile reads. Implementations swallow their
// own failures; a miss is always a safe answer.
type ProfileCache interface {
	GetProfile(ctx context.Context, userID string) (*Profile, CacheToken, bool)
	SetProfile(ctx context.Context, userID string, token CacheToken, profile *Profile)
	GetList(ctx context.Context) ([]Profile, CacheToken, bool)
	SetList(ctx context.Context, token CacheToken, profiles []Profile)
	Invalidate(ctx context.Context, userID string)
}

type ProfileUsecase interface {
	GetSelf(ctx context.Context, identity Identity) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, identity Identity, input ProfileInput) (*Profile, error)
	Delete(ctx context.Context, identity Identity) error
	AddExperience(ctx context.Context, identity Identity, input ExperienceInput) (*Profile, error)
	RemoveExperience(ctx context.Context, identity Identity, experienceID string) (*Profile, error)
}
