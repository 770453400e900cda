package model

import (
	"strconv"
	"time"
)

// TemplateSummary is a funding template version held by the platform. Content
// carries the nested template JSON document.
type TemplateSummary struct {
	TemplateID      string    `json:"templateId"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	FundingStreamID string    `json:"fundingStreamId"`
	FundingPeriodID string    `json:"fundingPeriodId"`
	MajorVersion    int       `json:"majorVersion"`
	MinorVersion    int       `json:"minorVersion"`
	Status          string    `json:"status"`
	LastModified    time.Time `json:"lastModificationDate"`
	Content         string    `json:"templateJson,omitempty"`
}

// Version renders major.minor.
func (t TemplateSummary) Version() string {
	return strconv.Itoa(t.MajorVersion) + "." + strconv.Itoa(t.MinorVersion)
}
