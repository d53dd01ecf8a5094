package demo

import (
	"context"
	"errors"
	"time"

	"go-leave/internal/shared/contextutil"
	"go-leave/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "password123"

type InitResult struct {
	Message string         `json:"message"`
	Users   []DemoUserInfo `json:"users,omitempty"`
}

type DemoUserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

//go:generate mockgen -source=demo_service.go -destination=mock/demo_service_mock.go -package=mock
type Service interface {
	Init(ctx context.Context) (InitResult, error)
}

type service struct {
	users user.Repository
}

func NewService(users user.Repository) Service {
	return &service{users: users}
}

// seedUser: nama, email, role, dan lama kerja (bulan) masing-masing akun demo.
type seedUser struct {
	name      string
	email     string
	role      string
	monthsAgo int
}

var demoUsers = []seedUser{
	{name: "Demo Employee", email: "employee@waqtech.com", role: user.RoleEmployee, monthsAgo: 10},
	{name: "Demo HR", email: "hr@waqtech.com", role: user.RoleHR, monthsAgo: 24},
	{name: "Demo Admin", email: "admin@waqtech.com", role: user.RoleAdmin, monthsAgo: 36},
}

func (s *service) Init(ctx context.Context) (InitResult, error) {
	l := contextutil.GetLogger(ctx, nil)

	// Idempotent: kehadiran akun employee demo berarti seed sudah jalan.
	if _, err := s.users.FindByEmail(ctx, demoUsers[0].email); err == nil {
		return InitResult{Message: "Demo data already exists"}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return InitResult{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return InitResult{}, err
	}

	now := time.Now().UTC()
	created := make([]DemoUserInfo, 0, len(demoUsers))

	for _, seed := range demoUsers {
		u := &user.User{
			ID:       uuid.New(),
			Name:     seed.name,
			Email:    seed.email,
			Password: string(hashed),
			Role:     seed.role,
			JoinedAt: now.AddDate(0, -seed.monthsAgo, 0),
			IsActive: true,
		}

		if err := s.users.Create(ctx, u); err != nil {
			// Dua init berlomba: yang kalah unique index dianggap sudah ada.
			if isUniqueViolation(err) {
				return InitResult{Message: "Demo data already exists"}, nil
			}
			l.Error("failed to seed demo user", zap.String("email", seed.email), zap.Error(err))
			return InitResult{}, err
		}

		created = append(created, DemoUserInfo{
			ID:    u.ID.String(),
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
		})
	}

	l.Info("demo data seeded", zap.Int("users", len(created)))

	return InitResult{
		Message: "Demo data initialized successfully",
		Users:   created,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
