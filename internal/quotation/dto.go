package quotation

import (
	errors "github.com/frahmantamala/contractor-management/internal"
	"github.com/frahmantamala/contractor-management/internal/core/common/validation"
)

// CreateQuotationDTO is the request payload for creating a quotation.
// New quotations always start in DRAFT.
type CreateQuotationDTO struct {
	Title          string `json:"title"`
	CustomerName   string `json:"customer_name"`
	PropertyRef    string `json:"property_ref"`
	AssignedToID   *int64 `json:"assigned_to_id,omitempty"`
	SubtotalAmount int64  `json:"subtotal_amount"`
	TaxAmount      int64  `json:"tax_amount"`
	TotalAmount    int64  `json:"total_amount"`
	LaborCost      int64  `json:"labor_cost"`
	MaterialCost   int64  `json:"material_cost"`
}

func (dto CreateQuotationDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	v.Field("customer_name", dto.CustomerName).MaxLength(200)
	v.Field("subtotal_amount", dto.SubtotalAmount).NonNegative(errors.ErrCodeInvalidAmount)
	v.Field("tax_amount", dto.TaxAmount).NonNegative(errors.ErrCodeInvalidAmount)
	v.Field("total_amount", dto.TotalAmount).NonNegative(errors.ErrCodeInvalidAmount)
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

// RejectDTO is the dedicated rejection payload.
type RejectDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("reason", dto.Reason).Required().MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
