package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/calcfunding/portal/internal/domain/template"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/http/ui/viewmodel"
	"github.com/calcfunding/portal/internal/http/validation"
	"github.com/calcfunding/portal/internal/service"
)

// TemplateHandlers serves the template builder.
type TemplateHandlers struct {
	Svc *service.TemplateService
}

// TemplateView is the template builder page model.
type TemplateView struct {
	viewmodel.Layout
	TemplateID string             `json:"templateId"`
	Roots      []int              `json:"roots"`
	Nodes      []template.Entry   `json:"nodes"`
	CanUndo    bool               `json:"canUndo"`
	CanRedo    bool               `json:"canRedo"`
	Problems   []template.Problem `json:"problems"`
	// NodeID is the node created by an add or clone.
	NodeID int `json:"nodeId,omitempty"`
}

func newTemplateView(r *http.Request, d *service.Draft, nodeID int) TemplateView {
	return TemplateView{
		Layout:     newLayout(r, viewmodel.PageTemplateBuilder),
		TemplateID: d.TemplateID,
		Roots:      nonNil(d.Editor.Roots()),
		Nodes:      nonNil(d.Editor.Entries()),
		CanUndo:    d.Editor.CanUndo(),
		CanRedo:    d.Editor.CanRedo(),
		Problems:   nonNil(d.Problems),
		NodeID:     nodeID,
	}
}

func (h *TemplateHandlers) respond(w http.ResponseWriter, r *http.Request, status int, d *service.Draft, nodeID int, err error) {
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, status, newTemplateView(r, d, nodeID))
}

// Get opens the template's draft.
func (h *TemplateHandlers) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Open(r.Context(), r.PathValue("templateId"))
	h.respond(w, r, http.StatusOK, d, 0, err)
}

// Save writes the draft back to the platform.
func (h *TemplateHandlers) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Save(r.Context(), r.PathValue("templateId")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Discard drops the draft.
func (h *TemplateHandlers) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Discard(r.Context(), r.PathValue("templateId")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nodeForm binds and validates the node panel. It writes the error response
// itself and returns ok=false when the form is invalid.
func nodeForm(w http.ResponseWriter, r *http.Request) (int, template.NodeSpec, bool) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, r, badForm(err))
		return 0, template.NodeSpec{}, false
	}
	form := validation.NewTemplateNodeForm()
	form.Bind(r.PostForm)
	parentID, spec, ok := form.Spec()
	if !ok {
		writeFormErrors(w, r, form.FieldErrors())
	}
	return parentID, spec, ok
}

// AddNode adds a funding line or calculation.
func (h *TemplateHandlers) AddNode(w http.ResponseWriter, r *http.Request) {
	parentID, spec, ok := nodeForm(w, r)
	if !ok {
		return
	}
	d, id, err := h.Svc.AddNode(r.Context(), r.PathValue("templateId"), parentID, spec)
	h.respond(w, r, http.StatusCreated, d, id, err)
}

// UpdateNode edits a node's properties. The parent field is ignored.
func (h *TemplateHandlers) UpdateNode(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	_, spec, ok := nodeForm(w, r)
	if !ok {
		return
	}
	d, err := h.Svc.UpdateNode(r.Context(), r.PathValue("templateId"), id, spec)
	h.respond(w, r, http.StatusOK, d, 0, err)
}

// RemoveNode deletes a node and its subtree.
func (h *TemplateHandlers) RemoveNode(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	d, err := h.Svc.RemoveNode(r.Context(), r.PathValue("templateId"), id)
	h.respond(w, r, http.StatusOK, d, 0, err)
}

// CloneNode copies a subtree beneath parentId.
func (h *TemplateHandlers) CloneNode(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	parentID, ok := targetParent(w, r)
	if !ok {
		return
	}
	d, clone, err := h.Svc.CloneNode(r.Context(), r.PathValue("templateId"), id, parentID)
	h.respond(w, r, http.StatusCreated, d, clone, err)
}

// MoveNode reattaches a node beneath parentId.
func (h *TemplateHandlers) MoveNode(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	parentID, ok := targetParent(w, r)
	if !ok {
		return
	}
	d, err := h.Svc.MoveNode(r.Context(), r.PathValue("templateId"), id, parentID)
	h.respond(w, r, http.StatusOK, d, 0, err)
}

// Undo reverts the last edit.
func (h *TemplateHandlers) Undo(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Undo(r.Context(), r.PathValue("templateId"))
	h.respond(w, r, http.StatusOK, d, 0, err)
}

// Redo reapplies the last undone edit.
func (h *TemplateHandlers) Redo(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Redo(r.Context(), r.PathValue("templateId"))
	h.respond(w, r, http.StatusOK, d, 0, err)
}

func nodeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("nodeId"))
	if err != nil || id <= 0 {
		WriteError(w, r, apperrors.NotFound("Node not found"))
		return 0, false
	}
	return id, true
}

// targetParent reads parentId from the form; blank means the template root.
func targetParent(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.FormValue("parentId"))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		WriteError(w, r, apperrors.ValidationField("parentId", "Select a valid parent"))
		return 0, false
	}
	return id, true
}
