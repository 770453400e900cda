package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/calcfunding/portal/internal/domain/model"
)

// ErrEmptyFilter is returned when a subscription filter names no criteria.
var ErrEmptyFilter = errors.New("filter requires a specification id, job id, trigger entity id, job type or expression")

// Filter describes which job snapshots a subscription is interested in.
// Every non-empty criterion must match.
type Filter struct {
	SpecificationID   string          `json:"specificationId,omitempty"`
	TriggerByEntityID string          `json:"triggerByEntityId,omitempty"`
	JobID             string          `json:"jobId,omitempty"`
	JobTypes          []model.JobType `json:"jobTypes,omitempty"`
	// Expression is an optional JMESPath predicate evaluated against the job's JSON form.
	Expression string `json:"expression,omitempty"`
}

// Empty reports whether no criteria are set.
func (f Filter) Empty() bool {
	return f.SpecificationID == "" && f.TriggerByEntityID == "" && f.JobID == "" &&
		len(f.JobTypes) == 0 && strings.TrimSpace(f.Expression) == ""
}

// Validate rejects empty filters, unknown job types and expressions that do not compile.
func (f Filter) Validate() error {
	if f.Empty() {
		return ErrEmptyFilter
	}
	for _, jt := range f.JobTypes {
		if !jt.Valid() {
			return fmt.Errorf("invalid job type %q", jt)
		}
	}
	if expr := strings.TrimSpace(f.Expression); expr != "" {
		if _, err := jmespath.Compile(expr); err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}
	return nil
}

// Matches reports whether job satisfies every criterion of the filter.
func (f Filter) Matches(job *model.JobDetails) bool {
	if job == nil {
		return false
	}
	if f.SpecificationID != "" && f.SpecificationID != job.SpecificationID {
		return false
	}
	if f.JobID != "" && f.JobID != job.JobID {
		return false
	}
	if f.TriggerByEntityID != "" && (job.Trigger == nil || job.Trigger.EntityID != f.TriggerByEntityID) {
		return false
	}
	if len(f.JobTypes) > 0 && !slices.Contains(f.JobTypes, job.JobType) {
		return false
	}
	if expr := strings.TrimSpace(f.Expression); expr != "" {
		return evaluatePredicate(expr, job)
	}
	return true
}

// evaluatePredicate runs expr against the JSON document of job. Evaluation
// failures count as a non-match.
func evaluatePredicate(expr string, job *model.JobDetails) bool {
	raw, err := json.Marshal(job)
	if err != nil {
		return false
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	result, err := jmespath.Search(expr, doc)
	if err != nil {
		return false
	}
	return truthy(result)
}

// truthy applies JMESPath truth rules: null, false, empty strings and empty
// collections are false; everything else, including zero, is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// String renders the filter for log attributes.
func (f Filter) String() string {
	parts := make([]string, 0, 5)
	if f.SpecificationID != "" {
		parts = append(parts, "spec="+f.SpecificationID)
	}
	if f.JobID != "" {
		parts = append(parts, "job="+f.JobID)
	}
	if f.TriggerByEntityID != "" {
		parts = append(parts, "trigger="+f.TriggerByEntityID)
	}
	if len(f.JobTypes) > 0 {
		types := make([]string, len(f.JobTypes))
		for i, jt := range f.JobTypes {
			types[i] = string(jt)
		}
		parts = append(parts, "types="+strings.Join(types, ","))
	}
	if f.Expression != "" {
		parts = append(parts, "expr="+f.Expression)
	}
	return strings.Join(parts, " ")
}
