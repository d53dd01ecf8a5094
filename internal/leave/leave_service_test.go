package leave_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn                func(tx *gorm.DB) leave.Repository
	createFn                func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDFn              func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findAllByUserFn         func(ctx context.Context, userID string) ([]leave.LeaveRequest, error)
	findAllFn               func(ctx context.Context) ([]leave.LeaveRequest, error)
	sumApprovedDaysFn       func(ctx context.Context, userID string) (int, error)
	getUserJoinedAtFn       func(ctx context.Context, userID string) (time.Time, error)
	lockUserJoinedAtFn      func(ctx context.Context, userID string) (time.Time, error)
	updateStatusIfPendingFn func(ctx context.Context, l *leave.LeaveRequest) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *gorm.DB) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindAllByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) SumApprovedDays(ctx context.Context, userID string) (int, error) {
	if f.sumApprovedDaysFn != nil {
		return f.sumApprovedDaysFn(ctx, userID)
	}
	return 0, nil
}

func (f *fakeLeaveRepository) GetUserJoinedAt(ctx context.Context, userID string) (time.Time, error) {
	if f.getUserJoinedAtFn != nil {
		return f.getUserJoinedAtFn(ctx, userID)
	}
	return time.Now().UTC().AddDate(-1, 0, 0), nil
}

func (f *fakeLeaveRepository) LockUserJoinedAt(ctx context.Context, userID string) (time.Time, error) {
	if f.lockUserJoinedAtFn != nil {
		return f.lockUserJoinedAtFn(ctx, userID)
	}
	return time.Now().UTC().AddDate(-1, 0, 0), nil
}

func (f *fakeLeaveRepository) UpdateStatusIfPending(ctx context.Context, l *leave.LeaveRequest) (bool, error) {
	if f.updateStatusIfPendingFn != nil {
		return f.updateStatusIfPendingFn(ctx, l)
	}
	return true, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type leaveServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	outbox  *fakeOutboxRepository
	closeFn func()
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	outbox := &fakeOutboxRepository{}
	svc := leave.NewServiceWithOutbox(gormDB, repo, outbox)

	return &leaveServiceDeps{
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
		closeFn: func() { db.Close() },
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()
	joinedAt := time.Now().UTC().AddDate(0, -10, 0) // 10 bulan -> 20 hari

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, true)

		deps.repo.lockUserJoinedAtFn = func(ctx context.Context, uid string) (time.Time, error) {
			assert.Equal(t, userID, uid)
			return joinedAt, nil
		}
		deps.repo.sumApprovedDaysFn = func(ctx context.Context, uid string) (int, error) {
			return 4, nil
		}

		var created *leave.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			created = l
			return nil
		}

		resp, err := deps.service.Submit(ctx, userID, leave.CreateLeaveRequest{
			StartDate: "2026-03-01",
			EndDate:   "2026-03-03",
			Reason:    "Family event",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, leave.StatusPending, created.Status)
		assert.Equal(t, 3, created.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, "2026-03-01", resp.StartDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)

		deps.repo.lockUserJoinedAtFn = func(ctx context.Context, uid string) (time.Time, error) {
			return joinedAt, nil
		}
		// 19 dari 20 hari sudah terpakai, sisa 1
		deps.repo.sumApprovedDaysFn = func(ctx context.Context, uid string) (int, error) {
			return 19, nil
		}

		_, err := deps.service.Submit(ctx, userID, leave.CreateLeaveRequest{
			StartDate: "2026-03-01",
			EndDate:   "2026-03-03",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		_, err := deps.service.Submit(ctx, userID, leave.CreateLeaveRequest{
			StartDate: "2026-03-05",
			EndDate:   "2026-03-01",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative bad date format", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		_, err := deps.service.Submit(ctx, userID, leave.CreateLeaveRequest{
			StartDate: "01-03-2026",
			EndDate:   "2026-03-03",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})
}

func TestLeaveService_Review(t *testing.T) {
	ctx := context.Background()
	reviewerID := uuid.New().String()
	requestID := uuid.New().String()
	ownerID := uuid.New()
	joinedAt := time.Now().UTC().AddDate(0, -10, 0)

	pendingRequest := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:        uuid.MustParse(requestID),
			UserID:    ownerID,
			TotalDays: 3,
			Status:    leave.StatusPending,
		}
	}

	t.Run("success approve", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			assert.Equal(t, requestID, id)
			return pendingRequest(), nil
		}
		deps.repo.lockUserJoinedAtFn = func(ctx context.Context, uid string) (time.Time, error) {
			assert.Equal(t, ownerID.String(), uid)
			return joinedAt, nil
		}
		deps.repo.sumApprovedDaysFn = func(ctx context.Context, uid string) (int, error) {
			return 0, nil
		}

		resp, err := deps.service.Review(ctx, reviewerID, requestID, leave.ReviewLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ReviewedBy)
		assert.Equal(t, reviewerID, *resp.ReviewedBy)

		// event review masuk outbox dalam transaksi yang sama
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "leave.reviewed", deps.outbox.created[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success reject skips balance check", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingRequest(), nil
		}
		deps.repo.lockUserJoinedAtFn = func(ctx context.Context, uid string) (time.Time, error) {
			t.Fatal("reject must not lock the user row")
			return time.Time{}, nil
		}

		resp, err := deps.service.Review(ctx, reviewerID, requestID, leave.ReviewLeaveRequest{
			Status: leave.StatusRejected,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already reviewed", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			l := pendingRequest()
			l.Status = leave.StatusApproved
			return l, nil
		}

		_, err := deps.service.Review(ctx, reviewerID, requestID, leave.ReviewLeaveRequest{
			Status: leave.StatusRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyReviewed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative lost the update race", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingRequest(), nil
		}
		deps.repo.updateStatusIfPendingFn = func(ctx context.Context, l *leave.LeaveRequest) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Review(ctx, reviewerID, requestID, leave.ReviewLeaveRequest{
			Status: leave.StatusRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyReviewed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative approval exceeds remaining balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingRequest(), nil
		}
		deps.repo.lockUserJoinedAtFn = func(ctx context.Context, uid string) (time.Time, error) {
			return joinedAt, nil
		}
		deps.repo.sumApprovedDaysFn = func(ctx context.Context, uid string) (int, error) {
			return 18, nil // sisa 2, request 3
		}

		_, err := deps.service.Review(ctx, reviewerID, requestID, leave.ReviewLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Review(ctx, reviewerID, requestID, leave.ReviewLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrRequestNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid decision", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		_, err := deps.service.Review(ctx, reviewerID, requestID, leave.ReviewLeaveRequest{
			Status: "cancelled",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDecision)
	})
}

func TestLeaveService_Balance(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		deps.repo.getUserJoinedAtFn = func(ctx context.Context, uid string) (time.Time, error) {
			return time.Now().UTC().AddDate(0, -10, 0), nil
		}
		deps.repo.sumApprovedDaysFn = func(ctx context.Context, uid string) (int, error) {
			return 6, nil
		}

		resp, err := deps.service.Balance(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, 10, resp.MonthsWorked)
		assert.Equal(t, 20, resp.TotalDays)
		assert.Equal(t, 6, resp.UsedDays)
		assert.Equal(t, 14, resp.RemainingDays)
	})

	t.Run("negative unknown user", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		deps.repo.getUserJoinedAtFn = func(ctx context.Context, uid string) (time.Time, error) {
			return time.Time{}, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Balance(ctx, userID)
		assert.ErrorIs(t, err, leaveerrors.ErrRequestNotFound)
	})
}

func TestLeaveService_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("own requests only", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		deps.repo.findAllByUserFn = func(ctx context.Context, uid string) ([]leave.LeaveRequest, error) {
			assert.Equal(t, userID, uid)
			return []leave.LeaveRequest{{ID: uuid.New(), UserID: uuid.MustParse(userID), Status: leave.StatusPending}}, nil
		}
		deps.repo.findAllFn = func(ctx context.Context) ([]leave.LeaveRequest, error) {
			t.Fatal("must not list all requests without read_all permission")
			return nil, nil
		}

		resp, err := deps.service.List(ctx, userID, false)
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("reviewer sees everything", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.closeFn()

		deps.repo.findAllFn = func(ctx context.Context) ([]leave.LeaveRequest, error) {
			return []leave.LeaveRequest{
				{ID: uuid.New(), Status: leave.StatusPending},
				{ID: uuid.New(), Status: leave.StatusApproved},
			}, nil
		}

		resp, err := deps.service.List(ctx, userID, true)
		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})
}
