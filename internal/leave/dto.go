package leave

import (
	"github.com/familyone/factory-ops/internal/core/common/validation"

	apperrors "github.com/familyone/factory-ops/internal"
)

type CreateLeaveDTO struct {
	UserID    string  `json:"userId"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Reason    *string `json:"reason,omitempty"`
	Signature *string `json:"signature,omitempty"`
}

func (d CreateLeaveDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("userId", d.UserID).Required()
	v.Field("startDate", d.StartDate).Required().DateYMD()
	v.Field("endDate", d.EndDate).Required().DateYMD()

	if err := v.Validate(); err != nil {
		return err
	}
	if d.EndDate < d.StartDate {
		return apperrors.NewValidationError("endDate before startDate", apperrors.ErrCodeInvalidDate)
	}
	return nil
}

type DecideLeaveDTO struct {
	ReviewerID      string  `json:"reviewerId"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

func (d DecideLeaveDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("reviewerId", d.ReviewerID).Required()

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CancelRequestDTO struct {
	Reason *string `json:"reason,omitempty"`
}

type AllocationDTO struct {
	UserID    string `json:"userId"`
	Year      int    `json:"year"`
	TotalDays int    `json:"totalDays"`
}

func (d AllocationDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("userId", d.UserID).Required()
	v.Field("year", d.Year).MinInt(2000, apperrors.ErrCodeInvalidDate).MaxInt(3000, apperrors.ErrCodeInvalidDate)
	v.Field("totalDays", d.TotalDays).MinInt(0, apperrors.ErrCodeValidationFailed).MaxInt(365, apperrors.ErrCodeValidationFailed)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// RequestView adds the resolved user name to a leave request row.
type RequestView struct {
	*Request
	UserName string `json:"userName,omitempty"`
}

// Summary is the yearly leave balance for one user.
type Summary struct {
	Year          int    `json:"year"`
	UserID        string `json:"userId"`
	TotalDays     int    `json:"totalDays"`
	UsedDays      int    `json:"usedDays"`
	RemainingDays int    `json:"remainingDays"`
}
