package model

import "time"

// FundingStream is a government funding stream (e.g. "DSG").
type FundingStream struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FundingPeriod is the period funding is allocated for (e.g. "AY-2526").
type FundingPeriod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpecificationSummary is the list/detail view of a funding specification.
type SpecificationSummary struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Description          string            `json:"description,omitempty"`
	FundingPeriod        FundingPeriod     `json:"fundingPeriod"`
	FundingStreams       []FundingStream   `json:"fundingStreams"`
	ProviderVersionID    string            `json:"providerVersionId,omitempty"`
	ApprovalStatus       string            `json:"approvalStatus,omitempty"`
	IsSelectedForFunding bool              `json:"isSelectedForFunding"`
	TemplateIDs          map[string]string `json:"templateIds,omitempty"`
	LastEditedDate       *time.Time        `json:"lastEditedDate,omitempty"`
}

// CreateSpecificationRequest creates a new specification.
type CreateSpecificationRequest struct {
	Name              string `json:"name"              validate:"required,max=256"`
	Description       string `json:"description"       validate:"max=1000"`
	FundingStreamID   string `json:"fundingStreamId"   validate:"required"`
	FundingPeriodID   string `json:"fundingPeriodId"   validate:"required"`
	ProviderVersionID string `json:"providerVersionId" validate:"required"`
	TemplateVersion   string `json:"templateVersion"   validate:"required"`
}

// Validate returns inline messages keyed by JSON field name.
func (r *CreateSpecificationRequest) Validate() (map[string]string, error) {
	return validateStruct(r, fieldMessages{
		"Name":              "Enter a specification name",
		"Description":       "Description cannot exceed 1000 characters",
		"FundingStreamID":   "Select a funding stream",
		"FundingPeriodID":   "Select a funding period",
		"ProviderVersionID": "Select a core provider data version",
		"TemplateVersion":   "Select a template version",
	})
}
