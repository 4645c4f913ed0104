package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"devconnector-api/internal/domain"
	"devconnector-api/pkg/apperror"
	"devconnector-api/pkg/logger"
	"devconnector-api/pkg/validation"

	"github.com/google/uuid"
)

const (
	msgNoProfileForUser   = "There is no profile for this user"
	msgProfileNotFound    = "Profile not found"
	msgExperienceNotFound = "Experience not found"

	publishTimeout = 5 * time.Second
)

var profileRules = []validation.Rule{
	{Field: "status", Tag: "required", Message: "Status is required"},
	{Field: "skills", Tag: "required", Message: "Skills is required"},
}

var experienceRules = []validation.Rule{
	{Field: "title", Tag: "required", Message: "Title is required"},
	{Field: "company", Tag: "required", Message: "Company is required"},
	{Field: "from", Tag: "required", Message: "from date is required"},
	{Field: "from", Tag: "valid_date", Message: "from date is invalid"},
	{Field: "to", Tag: "valid_date", Message: "to date is invalid"},
}

type profileUsecase struct {
	profileRepo domain.ProfileRepository
	userRepo    domain.UserRepository
	checker     *validation.Checker
	cache       domain.ProfileCache
	events      domain.EventPublisher
	now         func() time.Time
	newID       func() string
}

// ProfileOption customizes optional collaborators of the profile usecase.
type ProfileOption func(*profileUsecase)

func WithProfileCache(cache domain.ProfileCache) ProfileOption {
	return func(u *profileUsecase) {
		if cache != nil {
			u.cache = cache
		}
	}
}

func WithEventPublisher(events domain.EventPublisher) ProfileOption {
	return func(u *profileUsecase) {
		if events != nil {
			u.events = events
		}
	}
}

// WithIDGenerator replaces the experience id source.
func WithIDGenerator(newID func() string) ProfileOption {
	return func(u *profileUsecase) {
		if newID != nil {
			u.newID = newID
		}
	}
}

func NewProfileUsecase(
	profileRepo domain.ProfileRepository,
	userRepo domain.UserRepository,
	checker *validation.Checker,
	opts ...ProfileOption,
) domain.ProfileUsecase {
	u := &profileUsecase{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		checker:     checker,
		cache:       noopCache{},
		events:      noopPublisher{},
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *profileUsecase) GetSelf(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	if identity.UserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	profile, err := u.profileRepo.GetByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, storeError(err, msgNoProfileForUser)
	}
	return profile, nil
}

func (u *profileUsecase) List(ctx context.Context) ([]domain.Profile, error) {
	profiles, token, ok := u.cache.GetList(ctx)
	if ok {
		return profiles, nil
	}
	profiles, err := u.profileRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	u.cache.SetList(ctx, token, profiles)
	return profiles, nil
}

// GetByUserID treats an id that cannot name a user as a missing profile.
func (u *profileUsecase) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, apperror.NotFound(msgProfileNotFound)
	}
	profile, token, ok := u.cache.GetProfile(ctx, userID)
	if ok {
		return profile, nil
	}
	profile, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError(err, msgProfileNotFound)
	}
	u.cache.SetProfile(ctx, userID, token, profile)
	return profile, nil
}

func (u *profileUsecase) Upsert(ctx context.Context, identity domain.Identity, input domain.ProfileInput) (*domain.Profile, error) {
	if identity.UserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	// skills is checked after parsing: a list of bare commas has no skills
	skills := ParseSkills(input.Skills)
	payload := map[string]string{"status": input.Status, "skills": strings.Join(skills, ",")}
	if violations := u.checker.Check(profileRules, payload); len(violations) > 0 {
		return nil, apperror.Validation(violations)
	}

	fields := domain.ProfileFields{
		UserID:         identity.UserID,
		Status:         input.Status,
		Skills:         skills,
		Company:        supplied(input.Company),
		Website:        supplied(input.Website),
		Location:       supplied(input.Location),
		Bio:            supplied(input.Bio),
		GitHubUsername: supplied(input.GitHubUsername),
		Social: domain.SocialFields{
			YouTube:   supplied(input.YouTube),
			Facebook:  supplied(input.Facebook),
			Twitter:   supplied(input.Twitter),
			Instagram: supplied(input.Instagram),
			LinkedIn:  supplied(input.LinkedIn),
		},
	}

	written, err := u.profileRepo.Upsert(ctx, fields)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	profile, err := u.reload(ctx, written.ID)
	if err != nil {
		return nil, err
	}

	u.afterWrite(ctx, domain.ProfileEvent{
		Type:      domain.EventProfileUpserted,
		UserID:    identity.UserID,
		ProfileID: profile.ID,
	})
	return profile, nil
}

// Delete removes the profile and then the user. The two deletes are separate
// store calls: if the second fails the profile is already gone and the caller
// gets a store failure.
func (u *profileUsecase) Delete(ctx context.Context, identity domain.Identity) error {
	if identity.UserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}

	if err := u.profileRepo.DeleteByUserID(ctx, identity.UserID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return apperror.Internal(err)
	}
	u.cache.Invalidate(ctx, identity.UserID)

	if err := u.userRepo.Delete(ctx, identity.UserID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Log.Error("Account delete left user without profile",
			"user_id", identity.UserID,
			"step", "delete_user",
			"error", err,
		)
		return apperror.Internal(err)
	}

	u.publish(ctx, domain.ProfileEvent{Type: domain.EventAccountDeleted, UserID: identity.UserID})
	return nil
}

func (u *profileUsecase) AddExperience(ctx context.Context, identity domain.Identity, input domain.ExperienceInput) (*domain.Profile, error) {
	if identity.UserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	payload := map[string]string{
		"title":   input.Title,
		"company": input.Company,
		"from":    input.From,
		"to":      input.To,
	}
	if violations := u.checker.Check(experienceRules, payload); len(violations) > 0 {
		return nil, apperror.Validation(violations)
	}

	entry, err := newExperience(input)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	written, err := u.profileRepo.MutateExperience(ctx, identity.UserID, func(list *domain.Experiences) error {
		entry.ID = u.freshID(list)
		return list.Prepend(entry)
	})
	if err != nil {
		return nil, storeError(err, msgProfileNotFound)
	}

	profile, err := u.reload(ctx, written.ID)
	if err != nil {
		return nil, err
	}

	u.afterWrite(ctx, domain.ProfileEvent{
		Type:         domain.EventExperienceAdded,
		UserID:       identity.UserID,
		ProfileID:    profile.ID,
		ExperienceID: entry.ID,
	})
	return profile, nil
}

func (u *profileUsecase) RemoveExperience(ctx context.Context, identity domain.Identity, experienceID string) (*domain.Profile, error) {
	if identity.UserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	written, err := u.profileRepo.MutateExperience(ctx, identity.UserID, func(list *domain.Experiences) error {
		if !list.Remove(experienceID) {
			return apperror.NotFound(msgExperienceNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, msgProfileNotFound)
	}

	profile, err := u.reload(ctx, written.ID)
	if err != nil {
		return nil, err
	}

	u.afterWrite(ctx, domain.ProfileEvent{
		Type:         domain.EventExperienceRemoved,
		UserID:       identity.UserID,
		ProfileID:    profile.ID,
		ExperienceID: experienceID,
	})
	return profile, nil
}

// reload reads a just-written profile back so callers see the joined,
// post-write state.
func (u *profileUsecase) reload(ctx context.Context, profileID string) (*domain.Profile, error) {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func (u *profileUsecase) afterWrite(ctx context.Context, event domain.ProfileEvent) {
	u.cache.Invalidate(ctx, event.UserID)
	u.publish(ctx, event)
}

// publish runs detached from the request: the write is already committed, so
// a client hanging up must not cancel the event.
func (u *profileUsecase) publish(ctx context.Context, event domain.ProfileEvent) {
	event.OccurredAt = u.now().UTC()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := u.events.Publish(ctx, event); err != nil {
		logger.Log.Warn("Failed to publish profile event",
			"type", string(event.Type),
			"user_id", event.UserID,
			"error", err,
		)
	}
}

func (u *profileUsecase) freshID(list *domain.Experiences) string {
	for {
		id := u.newID()
		if _, taken := list.IndexOf(id); !taken && id != "" {
			return id
		}
	}
}

// ParseSkills splits a comma separated skill list, trimming each entry and
// dropping empty ones.
func ParseSkills(raw string) []string {
	skills := []string{}
	for _, skill := range strings.Split(raw, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func newExperience(input domain.ExperienceInput) (domain.Experience, error) {
	from, err := validation.ParseDate(input.From)
	if err != nil {
		return domain.Experience{}, err
	}
	entry := domain.Experience{
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		From:        from,
		Current:     input.Current,
		Description: input.Description,
	}
	if input.To != "" {
		to, err := validation.ParseDate(input.To)
		if err != nil {
			return domain.Experience{}, err
		}
		entry.To = &to
	}
	return entry, nil
}

func supplied(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// storeError keeps apperrors as they are, turns ErrNotFound into a NotFound
// with msg and anything else into a store failure.
func storeError(err error, msg string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(msg)
	}
	return apperror.Internal(err)
}

type noopCache struct{}

func (noopCache) GetProfile(context.Context, string) (*domain.Profile, domain.CacheToken, bool) {
	return nil, "", false
}
func (noopCache) SetProfile(context.Context, string, domain.CacheToken, *domain.Profile) {}
func (noopCache) GetList(context.Context) ([]domain.Profile, domain.CacheToken, bool) {
	return nil, "", false
}
func (noopCache) SetList(context.Context, domain.CacheToken, []domain.Profile) {}
func (noopCache) Invalidate(context.Context, string) {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.ProfileEvent) error { return nil }
