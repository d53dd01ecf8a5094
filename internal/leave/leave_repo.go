package leave

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAllByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	SumApprovedDays(ctx context.Context, userID string) (int, error)
	GetUserJoinedAt(ctx context.Context, userID string) (time.Time, error)
	LockUserJoinedAt(ctx context.Context, userID string) (time.Time, error)
	UpdateStatusIfPending(ctx context.Context, l *LeaveRequest) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) SumApprovedDays(ctx context.Context, userID string) (int, error) {
	var used int
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select("COALESCE(SUM(total_days), 0)").
		Where("user_id = ?", userID).
		Where("status = ?", StatusApproved).
		Scan(&used).Error
	return used, err
}

func (r *repository) GetUserJoinedAt(ctx context.Context, userID string) (time.Time, error) {
	var joinedAt time.Time
	err := r.db.WithContext(ctx).
		Table("users").
		Select("joined_at").
		Where("id = ?", userID).
		Where("deleted_at IS NULL").
		Take(&joinedAt).Error
	return joinedAt, err
}

// LockUserJoinedAt mengambil row user FOR UPDATE; serialisasi approve yang
// berlomba untuk saldo yang sama.
func (r *repository) LockUserJoinedAt(ctx context.Context, userID string) (time.Time, error) {
	var joinedAt time.Time
	err := r.db.WithContext(ctx).
		Raw("SELECT joined_at FROM users WHERE id = ? AND deleted_at IS NULL FOR UPDATE", userID).
		Scan(&joinedAt).Error
	return joinedAt, err
}

// UpdateStatusIfPending hanya menulis bila status masih pending; false berarti
// request sudah pernah direview (guard lewat rows affected, bukan read-then-write).
func (r *repository) UpdateStatusIfPending(ctx context.Context, l *LeaveRequest) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", l.ID).
		Where("status = ?", StatusPending).
		Updates(map[string]interface{}{
			"status":      l.Status,
			"reviewed_by": l.ReviewedBy,
			"reviewed_at": l.ReviewedAt,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
