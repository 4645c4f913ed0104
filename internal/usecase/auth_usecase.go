package usecase

import (
	"context"
	"errors"

	"devconnector-api/internal/domain"
	"devconnector-api/pkg/apperror"
)

type authUsecase struct {
	userRepo domain.UserRepository
}

func NewAuthUsecase(userRepo domain.UserRepository) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo}
}

// GetCurrentUser loads the caller's account. The credential hash never leaves
// the repository layer in a response because User does not serialize it.
func (u *authUsecase) GetCurrentUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.UserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	user, err := u.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}
