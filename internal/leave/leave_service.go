package leave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	List(ctx context.Context, userID string, canReadAll bool) ([]LeaveRequestResponse, error)
	Balance(ctx context.Context, userID string) (BalanceResponse, error)
	Review(ctx context.Context, reviewerID, id string, req ReviewLeaveRequest) (LeaveRequestResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
	sf     singleflight.Group
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// NewServiceWithOutbox menulis event review ke outbox dalam transaksi yang
// sama dengan update status.
func NewServiceWithOutbox(db *gorm.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	svc := NewService(db, repo, logger...).(*service)
	svc.outbox = outbox
	return svc
}

func (s *service) Submit(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("user_id", userID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidDateRange
	}

	days := InclusiveDays(startDate, endDate)

	l := &LeaveRequest{
		ID:        uuid.New(),
		UserID:    userUUID,
		StartDate: startDate,
		EndDate:   endDate,
		TotalDays: days,
		Reason:    req.Reason,
		Status:    StatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		// Lock row user dulu supaya dua submit paralel tidak sama-sama lolos
		// cek saldo.
		joinedAt, err := qtx.LockUserJoinedAt(ctx, userID)
		if err != nil {
			return err
		}

		used, err := qtx.SumApprovedDays(ctx, userID)
		if err != nil {
			return err
		}

		balance := ComputeBalance(joinedAt, used, time.Now().UTC())
		if days > balance.RemainingDays {
			return leaveerrors.ErrInsufficientBalance
		}

		return qtx.Create(ctx, l)
	})
	if err != nil {
		if !errors.Is(err, leaveerrors.ErrInsufficientBalance) {
			s.logger.Error("submit leave failed", zap.String("user_id", userID), zap.Error(err))
		}
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("request_id", l.ID.String()),
		zap.String("user_id", userID),
		zap.Int("total_days", days),
	)

	return mapToResponse(*l), nil
}

func (s *service) List(ctx context.Context, userID string, canReadAll bool) ([]LeaveRequestResponse, error) {
	var (
		leaves []LeaveRequest
		err    error
	)

	if canReadAll {
		leaves, err = s.repo.FindAll(ctx)
	} else {
		leaves, err = s.repo.FindAllByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	return mapToListResponse(leaves), nil
}

func (s *service) Balance(ctx context.Context, userID string) (BalanceResponse, error) {
	// Singleflight: burst request balance untuk user yang sama cukup satu
	// round-trip ke DB.
	v, err, _ := s.sf.Do("balance:"+userID, func() (interface{}, error) {
		joinedAt, err := s.repo.GetUserJoinedAt(ctx, userID)
		if err != nil {
			return nil, err
		}

		used, err := s.repo.SumApprovedDays(ctx, userID)
		if err != nil {
			return nil, err
		}

		b := ComputeBalance(joinedAt, used, time.Now().UTC())
		return BalanceResponse{
			MonthsWorked:  b.MonthsWorked,
			TotalDays:     b.TotalDays,
			UsedDays:      b.UsedDays,
			RemainingDays: b.RemainingDays,
		}, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, leaveerrors.ErrRequestNotFound
		}
		return BalanceResponse{}, err
	}

	return v.(BalanceResponse), nil
}

func (s *service) Review(ctx context.Context, reviewerID, id string, req ReviewLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("review leave requested",
		zap.String("request_id", id),
		zap.String("reviewer_id", reviewerID),
		zap.String("decision", req.Status),
	)

	if req.Status != StatusApproved && req.Status != StatusRejected {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidDecision
	}

	reviewerUUID, err := uuid.Parse(reviewerID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
	}

	var reviewed LeaveRequest

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrRequestNotFound
			}
			return err
		}

		if l.Status != StatusPending {
			return leaveerrors.ErrAlreadyReviewed
		}

		if req.Status == StatusApproved {
			// Saldo dicek ulang di dalam transaksi: approve lain bisa sudah
			// memakan sisa saldo sejak request dibuat.
			joinedAt, err := qtx.LockUserJoinedAt(ctx, l.UserID.String())
			if err != nil {
				return err
			}

			used, err := qtx.SumApprovedDays(ctx, l.UserID.String())
			if err != nil {
				return err
			}

			balance := ComputeBalance(joinedAt, used, time.Now().UTC())
			if l.TotalDays > balance.RemainingDays {
				return leaveerrors.ErrInsufficientBalance
			}
		}

		now := time.Now().UTC()
		l.Status = req.Status
		l.ReviewedBy = &reviewerUUID
		l.ReviewedAt = &now

		ok, err := qtx.UpdateStatusIfPending(ctx, l)
		if err != nil {
			return err
		}
		if !ok {
			return leaveerrors.ErrAlreadyReviewed
		}

		reviewed = *l

		if s.outbox != nil {
			if err := s.enqueueReviewedEvent(ctx, tx, l); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("review leave success",
		zap.String("request_id", id),
		zap.String("reviewer_id", reviewerID),
		zap.String("status", reviewed.Status),
	)

	return mapToResponse(reviewed), nil
}

func (s *service) enqueueReviewedEvent(ctx context.Context, tx *gorm.DB, l *LeaveRequest) error {
	evt := events.LeaveReviewedEvent{
		EventType:  "leave.reviewed",
		RequestID:  l.ID.String(),
		UserID:     l.UserID.String(),
		ReviewerID: l.ReviewedBy.String(),
		Status:     l.Status,
		TotalDays:  l.TotalDays,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal reviewed event: %w", err)
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     evt.EventType,
		Topic:         events.LeaveReviewedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:        l.ID.String(),
		UserID:    l.UserID.String(),
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		TotalDays: l.TotalDays,
		Reason:    l.Reason,
		Status:    l.Status,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
