package report

import (
	"encoding/json"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/core/common/validation"
)

type CreateReportDTO struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Images  []string `json:"images,omitempty"`
}

func (d CreateReportDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("type", d.Type).Required().OneOf(
		string(TypeMachineFault), string(TypeMaterialShortage), string(TypeDefect), string(TypeOther))
	v.Field("message", d.Message).Required().MinLength(1)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// PatchOp is one arm of the report patch union. Exactly one field set.
type PatchOp struct {
	Status       *string  `json:"status,omitempty"`
	Message      *string  `json:"message,omitempty"`
	AddImages    []string `json:"addImages,omitempty"`
	RemoveImages []string `json:"removeImages,omitempty"`
}

func (p PatchOp) arms() int {
	n := 0
	if p.Status != nil {
		n++
	}
	if p.Message != nil {
		n++
	}
	if len(p.AddImages) > 0 {
		n++
	}
	if len(p.RemoveImages) > 0 {
		n++
	}
	return n
}

// DecodeModeratePatch parses a moderator patch: exactly one of {status},
// {addImages}, {removeImages}. Anything else is invalid, including bodies
// that mix arms.
func DecodeModeratePatch(raw []byte) (*PatchOp, error) {
	var op PatchOp
	if err := json.Unmarshal(raw, &op); err != nil {
		return nil, apperrors.NewValidationError("Invalid payload", apperrors.ErrCodeInvalidPayload)
	}
	if op.Message != nil || op.arms() != 1 {
		return nil, apperrors.NewValidationError("Invalid payload", apperrors.ErrCodeInvalidPayload)
	}
	if op.Status != nil {
		v := validation.NewValidator()
		v.Field("status", *op.Status).OneOf(string(StatusNew), string(StatusAck), string(StatusResolved))
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return &op, nil
}

// DecodeSelfPatch parses an owner patch: exactly one of {message},
// {addImages}, {removeImages}.
func DecodeSelfPatch(raw []byte) (*PatchOp, error) {
	var op PatchOp
	if err := json.Unmarshal(raw, &op); err != nil {
		return nil, apperrors.NewValidationError("Invalid payload", apperrors.ErrCodeInvalidPayload)
	}
	if op.Status != nil || op.arms() != 1 {
		return nil, apperrors.NewValidationError("Invalid payload", apperrors.ErrCodeInvalidPayload)
	}
	if op.Message != nil && *op.Message == "" {
		return nil, apperrors.NewValidationError("Invalid payload", apperrors.ErrCodeInvalidPayload)
	}
	return &op, nil
}

type CreateReplyDTO struct {
	Content string `json:"content"`
}

func (d CreateReplyDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("content", d.Content).Required().MinLength(1)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ReplyResponse bundles the reply with its refreshed report so clients can
// update in place.
type ReplyResponse struct {
	*Reply
	Report *Report `json:"report"`
}
