package leave

import (
	"time"

	leaveerrors "go-leave/internal/leave/errors"
)

// AccrualRatePerMonth adalah jatah hari cuti yang bertambah tiap bulan kerja.
const AccrualRatePerMonth = 2

// MonthsWorked menghitung bulan kalender penuh sejak joinedAt. Belum genap
// sebulan berarti 0; tidak pernah negatif.
func MonthsWorked(joinedAt, now time.Time) int {
	if now.Before(joinedAt) {
		return 0
	}

	months := (now.Year()-joinedAt.Year())*12 + int(now.Month()) - int(joinedAt.Month())
	if now.Day() < joinedAt.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// TotalAccruedDays = months_worked * AccrualRatePerMonth.
func TotalAccruedDays(joinedAt, now time.Time) int {
	return MonthsWorked(joinedAt, now) * AccrualRatePerMonth
}

// InclusiveDays menghitung jumlah hari cuti; start == end berarti 1 hari.
func InclusiveDays(start, end time.Time) int {
	start = truncateToDate(start)
	end = truncateToDate(end)
	return int(end.Sub(start).Hours()/24) + 1
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDate menerima YYYY-MM-DD maupun timestamp RFC3339 (dengan atau tanpa
// pecahan detik); hanya komponen tanggalnya yang dipakai.
func parseDate(v string) (time.Time, error) {
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return truncateToDate(t), nil
		}
	}

	return time.Time{}, leaveerrors.ErrInvalidDateFormat
}

type Balance struct {
	MonthsWorked  int
	TotalDays     int
	UsedDays      int
	RemainingDays int
}

// ComputeBalance menurunkan saldo dari joined_at + total hari approved; tidak
// ada kolom saldo yang disimpan, jadi tidak bisa drift.
func ComputeBalance(joinedAt time.Time, usedDays int, now time.Time) Balance {
	months := MonthsWorked(joinedAt, now)
	total := months * AccrualRatePerMonth
	return Balance{
		MonthsWorked:  months,
		TotalDays:     total,
		UsedDays:      usedDays,
		RemainingDays: total - usedDays,
	}
}
