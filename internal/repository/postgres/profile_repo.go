package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"devconnector-api/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

const profileSelect = `
	SELECT
		p.id::text, p.user_id::text,
		COALESCE(p.company, ''), COALESCE(p.website, ''), COALESCE(p.location, ''),
		COALESCE(p.bio, ''), p.status, COALESCE(p.githubusername, ''),
		p.skills, p.social, p.experience, p.created_at, p.updated_at,
		u.name, u.avatar
	FROM profiles p
	JOIN users u ON u.id = p.user_id`

type profileRepository struct {
	db DB
}

func NewProfileRepository(db DB) domain.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, profileSelect+` WHERE p.user_id = $1`, userID))
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return p, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, profileSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return p, nil
}

func (r *profileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.Query(ctx, profileSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Upsert relies on the unique user_id constraint so create-or-update is one
// statement. Optional columns keep their stored value when the field is nil and
// social links are merged key by key.
func (r *profileRepository) Upsert(ctx context.Context, f domain.ProfileFields) (*domain.Profile, error) {
	social, err := json.Marshal(socialPatch(f.Social))
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO profiles (
			id, user_id, status, skills,
			company, website, location, bio, githubusername,
			social, experience, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, '[]'::jsonb, $11, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			status = EXCLUDED.status,
			skills = EXCLUDED.skills,
			company = COALESCE(EXCLUDED.company, profiles.company),
			website = COALESCE(EXCLUDED.website, profiles.website),
			location = COALESCE(EXCLUDED.location, profiles.location),
			bio = COALESCE(EXCLUDED.bio, profiles.bio),
			githubusername = COALESCE(EXCLUDED.githubusername, profiles.githubusername),
			social = profiles.social || EXCLUDED.social,
			updated_at = EXCLUDED.updated_at
		RETURNING id::text, created_at, updated_at`

	p := &domain.Profile{UserID: f.UserID, Status: f.Status, Skills: f.Skills}
	err = r.db.QueryRow(ctx, query,
		uuid.NewString(), f.UserID, f.Status, pq.Array(f.Skills),
		f.Company, f.Website, f.Location, f.Bio, f.GitHubUsername,
		string(social), time.Now().UTC(),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}

// MutateExperience locks the profile row for the read-modify-write so two
// concurrent mutations for one owner cannot lose each other's entries.
func (r *profileRepository) MutateExperience(ctx context.Context, userID string, fn func(*domain.Experiences) error) (*domain.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	p := &domain.Profile{UserID: userID}
	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT id::text, experience FROM profiles WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&p.ID, &raw)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	if err := json.Unmarshal(raw, &p.Experience); err != nil {
		return nil, fmt.Errorf("decode experience of profile %s: %w", p.ID, err)
	}

	if err := fn(&p.Experience); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(p.Experience)
	if err != nil {
		return nil, err
	}
	err = tx.QueryRow(ctx,
		`UPDATE profiles SET experience = $2::jsonb, updated_at = $3 WHERE id = $1 RETURNING updated_at`,
		p.ID, string(encoded), time.Now().UTC(),
	).Scan(&p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return mapLookupErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p                  domain.Profile
		skills             []string
		social, experience []byte
		name, avatar       string
	)
	err := row.Scan(
		&p.ID, &p.UserID,
		&p.Company, &p.Website, &p.Location,
		&p.Bio, &p.Status, &p.GitHubUsername,
		pq.Array(&skills), &social, &experience, &p.CreatedAt, &p.UpdatedAt,
		&name, &avatar,
	)
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []string{}
	}
	p.Skills = skills
	if err := json.Unmarshal(social, &p.Social); err != nil {
		return nil, fmt.Errorf("decode social of profile %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(experience, &p.Experience); err != nil {
		return nil, fmt.Errorf("decode experience of profile %s: %w", p.ID, err)
	}
	p.User = &domain.UserSummary{ID: p.UserID, Name: name, Avatar: avatar}
	return &p, nil
}

// socialPatch keeps only the links supplied in this request.
func socialPatch(s domain.SocialFields) map[string]string {
	patch := map[string]string{}
	for key, value := range map[string]*string{
		"youtube":   s.YouTube,
		"facebook":  s.Facebook,
		"twitter":   s.Twitter,
		"instagram": s.Instagram,
		"linkedin":  s.LinkedIn,
	} {
		if value != nil {
			patch[key] = *value
		}
	}
	return patch
}
