package rfq

import (
	"github.com/frahmantamala/contractor-management/internal/core/common/validation"
)

// CreateRFQDTO is the request payload for raising an RFQ. New RFQs
// always start in DRAFT.
type CreateRFQDTO struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PropertyRef  string `json:"property_ref"`
	AssignedToID *int64 `json:"assigned_to_id,omitempty"`
}

func (dto CreateRFQDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	v.Field("description", dto.Description).MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// TransitionDTO requests a status transition. Reason is required only
// when the target status is REJECTED.
type TransitionDTO struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (dto TransitionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
