package httpx

import (
	"net/http"
	"time"

	"github.com/calcfunding/portal/internal/domain/model"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/http/ui/viewmodel"
	"github.com/calcfunding/portal/internal/service"
)

// FundingHandlers serves the funding management page.
type FundingHandlers struct {
	Svc *service.FundingService
	Now func() time.Time
}

// FundingPage is the funding management page model.
type FundingPage struct {
	viewmodel.Layout
	Specification model.SpecificationSummary `json:"specification"`
	Permissions   model.EffectivePermissions `json:"permissions"`
	Actions       []viewmodel.Action         `json:"actions"`
	LatestJob     *viewmodel.JobStatus       `json:"latestJob,omitempty"`
}

// Page returns the funding management page for a specification.
func (h *FundingHandlers) Page(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ov, err := h.Svc.Overview(r.Context(), user.UserID, r.PathValue("specificationId"))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	state := viewmodel.ActionState{}
	if ov.LatestJob.IsActive() {
		state.Busy = true
		state.BusyReason = ov.LatestJob.JobType.Description() + " is in progress"
	}
	WriteJSON(w, http.StatusOK, FundingPage{
		Layout:        newLayout(r, viewmodel.PageFundingManagement),
		Specification: ov.Specification,
		Permissions:   ov.Permissions,
		Actions:       viewmodel.FundingActions(&ov.Permissions, state),
		LatestJob:     viewmodel.NewJobStatus(ov.LatestJob, now),
	})
}

// JobQueued is returned when a funding action has been accepted.
type JobQueued struct {
	JobID string `json:"jobId"`
}

// Run performs approve, release or refresh. Missing permission answers 403.
func (h *FundingHandlers) Run(w http.ResponseWriter, r *http.Request) {
	action, ok := service.ParseFundingAction(r.PathValue("action"))
	if !ok {
		WriteError(w, r, apperrors.NotFoundf("unknown funding action %q", r.PathValue("action")))
		return
	}
	user, err := currentUser(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	jobID, err := h.Svc.Run(r.Context(), user.UserID, r.PathValue("specificationId"), action)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, JobQueued{JobID: jobID})
}
