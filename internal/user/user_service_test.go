package user_test

import (
	"context"
	"testing"
	"time"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/user"
	userMock "go-leave/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func TestUserService_Profile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMock.NewMockRepository(ctrl)
	service := user.NewService(mockRepo)
	ctx := context.Background()

	userID := uuid.New()
	joined := time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().
			FindByID(ctx, userID.String()).
			Return(&user.User{
				ID:       userID,
				Name:     "Demo Employee",
				Email:    "employee@waqtech.com",
				Role:     user.RoleEmployee,
				JoinedAt: joined,
				IsActive: true,
			}, nil)

		resp, err := service.Profile(ctx, userID.String())

		assert.NoError(t, err)
		assert.Equal(t, userID.String(), resp.ID)
		assert.Equal(t, "employee@waqtech.com", resp.Email)
		assert.Equal(t, user.RoleEmployee, resp.Role)
		assert.Equal(t, joined.Format(time.RFC3339), resp.JoinedAt)
	})

	t.Run("negative not found", func(t *testing.T) {
		mockRepo.EXPECT().
			FindByID(ctx, userID.String()).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := service.Profile(ctx, userID.String())
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
