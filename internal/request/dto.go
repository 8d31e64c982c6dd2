package request

import (
	"github.com/familyone/factory-ops/internal/core/common/validation"
)

type CreateRequestDTO struct {
	Kind    string `json:"kind"`
	Details string `json:"details"`
}

func (d CreateRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("kind", d.Kind).Required().OneOf(
		string(KindMoldChange), string(KindMaterialAdd), string(KindMaintenance), string(KindOther))
	v.Field("details", d.Details).Required().MinLength(1)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type DecideDTO struct {
	ReviewerID string `json:"reviewerId"`
}

func (d DecideDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("reviewerId", d.ReviewerID).Required()

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
