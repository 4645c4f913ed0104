package postgres

import (
	"context"
	"fmt"

	"devconnector-api/internal/domain"
)

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) domain.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, name, email, avatar, password_hash, created_at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Email, user.Avatar, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if hasCode(err, pgUniqueViolation) {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, err)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id::text, name, email, avatar, password_hash, created_at FROM users WHERE id = $1`
	var user domain.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Avatar, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return &user, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if hasCode(err, pgForeignKeyViolation) {
			return fmt.Errorf("user %s still owns a profile: %w", id, err)
		}
		return mapLookupErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
