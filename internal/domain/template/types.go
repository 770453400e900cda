// Package template edits funding templates as a flat list of nodes keyed by id.
package template

import (
	"errors"
	"strings"
)

// Kind distinguishes funding lines from calculations.
type Kind string

const (
	KindFundingLine Kind = "FundingLine"
	KindCalculation Kind = "Calculation"
)

// LineType classifies a funding line.
type LineType string

const (
	LineTypePayment     LineType = "Payment"
	LineTypeInformation LineType = "Information"
)

var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrInvalidParent     = errors.New("invalid parent")
	ErrRootMustBeLine    = errors.New("only funding lines can be placed at the root")
	ErrCalculationParent = errors.New("calculations cannot contain funding lines")
	ErrCycle             = errors.New("cannot move a node beneath itself")
	ErrNameRequired      = errors.New("name is required")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
)

// Node is one funding line or calculation in the editor's flat list.
// Children holds ids of direct children in display order.
type Node struct {
	ID                    int      `json:"id"`
	Kind                  Kind     `json:"kind"`
	Name                  string   `json:"name"`
	TemplateLineID        int      `json:"templateLineId,omitempty"`
	TemplateCalculationID int      `json:"templateCalculationId,omitempty"`
	FundingLineCode       string   `json:"fundingLineCode,omitempty"`
	LineType              LineType `json:"lineType,omitempty"`
	CalculationType       string   `json:"calculationType,omitempty"`
	ValueFormat           string   `json:"valueFormat,omitempty"`
	AggregationType       string   `json:"aggregationType,omitempty"`
	FormulaText           string   `json:"formulaText,omitempty"`
	Children              []int    `json:"children,omitempty"`
}

func (n Node) clone() Node {
	out := n
	if n.Children != nil {
		out.Children = append([]int(nil), n.Children...)
	}
	return out
}

// Entry pairs a node with its id.
type Entry struct {
	Key   int  `json:"key"`
	Value Node `json:"value"`
}

// NodeSpec carries the editable properties of a new or updated node.
type NodeSpec struct {
	Kind            Kind     `json:"kind"`
	Name            string   `json:"name"`
	FundingLineCode string   `json:"fundingLineCode,omitempty"`
	LineType        LineType `json:"lineType,omitempty"`
	CalculationType string   `json:"calculationType,omitempty"`
	ValueFormat     string   `json:"valueFormat,omitempty"`
	AggregationType string   `json:"aggregationType,omitempty"`
	FormulaText     string   `json:"formulaText,omitempty"`
}

func (s NodeSpec) normalize() (NodeSpec, error) {
	s.Name = strings.TrimSpace(s.Name)
	s.FundingLineCode = strings.TrimSpace(s.FundingLineCode)
	if s.Name == "" {
		return s, ErrNameRequired
	}
	switch s.Kind {
	case KindFundingLine:
		if s.LineType == "" {
			s.LineType = LineTypeInformation
		}
	case KindCalculation:
		if s.CalculationType == "" {
			s.CalculationType = "Cash"
		}
		if s.ValueFormat == "" {
			s.ValueFormat = "Currency"
		}
		if s.AggregationType == "" {
			s.AggregationType = "Sum"
		}
	default:
		return s, errors.New("kind must be FundingLine or Calculation")
	}
	return s, nil
}

// Template is the nested funding template document exchanged with the platform.
type Template struct {
	SchemaVersion          string        `json:"schemaVersion"`
	FundingTemplateVersion string        `json:"fundingTemplateVersion,omitempty"`
	FundingStream          *StreamRef    `json:"fundingStream,omitempty"`
	FundingPeriod          *PeriodRef    `json:"fundingPeriod,omitempty"`
	FundingLines           []FundingLine `json:"fundingLines"`
}

// StreamRef identifies the funding stream a template belongs to.
type StreamRef struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// PeriodRef identifies the funding period a template belongs to.
type PeriodRef struct {
	ID     string `json:"id"`
	Period string `json:"period,omitempty"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
}

// FundingLine is a nested funding line in a Template.
type FundingLine struct {
	TemplateLineID  int           `json:"templateLineId"`
	Name            string        `json:"name"`
	FundingLineCode string        `json:"fundingLineCode,omitempty"`
	Type            LineType      `json:"type"`
	FundingLines    []FundingLine `json:"fundingLines"`
	Calculations    []Calculation `json:"calculations"`
}

// Calculation is a nested calculation in a Template.
type Calculation struct {
	TemplateCalculationID int           `json:"templateCalculationId"`
	Name                  string        `json:"name"`
	Type                  string        `json:"type"`
	ValueFormat           string        `json:"valueFormat"`
	AggregationType       string        `json:"aggregationType"`
	FormulaText           string        `json:"formulaText,omitempty"`
	Calculations          []Calculation `json:"calculations"`
}
