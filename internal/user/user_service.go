package user

import (
	"context"
	"errors"
	"time"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/shared/contextutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Profile(ctx context.Context, userID string) (ProfileResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Profile(ctx context.Context, userID string) (ProfileResponse, error) {
	l := contextutil.GetLogger(ctx, nil)

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, autherrors.ErrUserNotFound
		}
		l.Error("failed to load profile", zap.Error(err))
		return ProfileResponse{}, err
	}

	return mapToProfile(u), nil
}

func mapToProfile(u *User) ProfileResponse {
	return ProfileResponse{
		ID:       u.ID.String(),
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		JoinedAt: u.JoinedAt.Format(time.RFC3339),
		IsActive: u.IsActive,
	}
}
