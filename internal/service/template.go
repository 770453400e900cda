package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/calcfunding/portal/internal/domain/template"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/ports"
)

// TemplateServiceOptions groups dependencies for TemplateService.
type TemplateServiceOptions struct {
	Backend ports.TemplatesAPI  // Required
	Drafts  template.DraftStore // Required
	Logger  *slog.Logger
}

// TemplateService loads funding templates into draft editors and saves them back.
// Edits to one template are serialized within the process; the draft store's
// Update guards against writers in other processes.
type TemplateService struct {
	backend ports.TemplatesAPI
	drafts  template.DraftStore
	logger  *slog.Logger
	locks   templateLocks
}

// templateLocks hands out one mutex per template id and forgets it once no
// request holds or waits for it.
type templateLocks struct {
	mu    sync.Mutex
	byKey map[string]*templateLock
}

type templateLock struct {
	sync.Mutex
	refs int
}

func (l *templateLocks) lock(key string) func() {
	l.mu.Lock()
	if l.byKey == nil {
		l.byKey = make(map[string]*templateLock)
	}
	tl, ok := l.byKey[key]
	if !ok {
		tl = &templateLock{}
		l.byKey[key] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.Lock()
	return func() {
		tl.Unlock()
		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.byKey, key)
		}
		l.mu.Unlock()
	}
}

// NewTemplateService constructs a TemplateService.
func NewTemplateService(opts TemplateServiceOptions) (*TemplateService, error) {
	if opts.Backend == nil {
		return nil, errors.New("TemplatesAPI is required")
	}
	if opts.Drafts == nil {
		return nil, errors.New("DraftStore is required")
	}
	return &TemplateService{
		backend: opts.Backend,
		drafts:  opts.Drafts,
		logger:  componentLogger(opts.Logger, "template_service"),
	}, nil
}

// Draft is the current editing state of one template.
type Draft struct {
	TemplateID string
	Editor     *template.Editor
	Problems   []template.Problem
}

func newDraft(templateID string, e *template.Editor) *Draft {
	return &Draft{TemplateID: templateID, Editor: e, Problems: e.Validate()}
}

// Open returns the stored draft, or loads the template from the backend and
// starts a new one.
func (s *TemplateService) Open(ctx context.Context, templateID string) (*Draft, error) {
	defer s.locks.lock(templateID)()
	e, err := s.load(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return newDraft(templateID, e), nil
}

func (s *TemplateService) load(ctx context.Context, templateID string) (*template.Editor, error) {
	if strings.TrimSpace(templateID) == "" {
		return nil, apperrors.ValidationField("templateId", "Template ID is required")
	}
	e, err := s.drafts.Load(ctx, templateID)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, template.ErrDraftNotFound) {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	summary, err := s.backend.GetTemplate(ctx, templateID)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NotFoundf("Template %s was not found", templateID)
	}
	if err != nil {
		return nil, fmt.Errorf("get template %s: %w", templateID, err)
	}
	if strings.TrimSpace(summary.Content) == "" {
		e = template.NewEditor(template.Template{})
	} else if e, err = template.Decode(strings.NewReader(summary.Content)); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeBusiness, "The template content could not be read")
	}
	if e, err = s.drafts.Start(ctx, templateID, e); err != nil {
		return nil, fmt.Errorf("start draft: %w", err)
	}
	s.logger.DebugContext(ctx, "template draft started", "template_id", templateID, "version", summary.Version())
	return e, nil
}

// Apply runs edit against the draft and persists the result. A failing edit
// leaves the stored draft unchanged.
func (s *TemplateService) Apply(ctx context.Context, templateID string, edit func(*template.Editor) error) (*Draft, error) {
	defer s.locks.lock(templateID)()
	if _, err := s.load(ctx, templateID); err != nil {
		return nil, err
	}
	var editErr error
	e, err := s.drafts.Update(ctx, templateID, func(e *template.Editor) error {
		editErr = edit(e)
		return editErr
	})
	if editErr != nil {
		return nil, editError(editErr)
	}
	if err != nil {
		return nil, fmt.Errorf("update draft: %w", err)
	}
	return newDraft(templateID, e), nil
}

// AddNode adds a node beneath parentID and returns the draft and the new node id.
func (s *TemplateService) AddNode(
	ctx context.Context,
	templateID string,
	parentID int,
	spec template.NodeSpec,
) (*Draft, int, error) {
	var id int
	d, err := s.Apply(ctx, templateID, func(e *template.Editor) error {
		var err error
		id, err = e.Add(parentID, spec)
		return err
	})
	return d, id, err
}

// UpdateNode edits a node's properties.
func (s *TemplateService) UpdateNode(ctx context.Context, templateID string, id int, spec template.NodeSpec) (*Draft, error) {
	return s.Apply(ctx, templateID, func(e *template.Editor) error { return e.Update(id, spec) })
}

// RemoveNode deletes a node and its subtree.
func (s *TemplateService) RemoveNode(ctx context.Context, templateID string, id int) (*Draft, error) {
	return s.Apply(ctx, templateID, func(e *template.Editor) error { return e.Remove(id) })
}

// CloneNode deep-copies a node beneath newParentID.
func (s *TemplateService) CloneNode(ctx context.Context, templateID string, id, newParentID int) (*Draft, int, error) {
	var clone int
	d, err := s.Apply(ctx, templateID, func(e *template.Editor) error {
		var err error
		clone, err = e.Clone(id, newParentID)
		return err
	})
	return d, clone, err
}

// MoveNode reattaches a node beneath newParentID.
func (s *TemplateService) MoveNode(ctx context.Context, templateID string, id, newParentID int) (*Draft, error) {
	return s.Apply(ctx, templateID, func(e *template.Editor) error { return e.Move(id, newParentID) })
}

// Undo reverts the last edit.
func (s *TemplateService) Undo(ctx context.Context, templateID string) (*Draft, error) {
	return s.Apply(ctx, templateID, (*template.Editor).Undo)
}

// Redo reapplies the last undone edit.
func (s *TemplateService) Redo(ctx context.Context, templateID string) (*Draft, error) {
	return s.Apply(ctx, templateID, (*template.Editor).Redo)
}

// Save validates the draft, writes its content back to the backend and
// discards the draft. Structural problems block the save.
func (s *TemplateService) Save(ctx context.Context, templateID string) error {
	defer s.locks.lock(templateID)()
	e, err := s.load(ctx, templateID)
	if err != nil {
		return err
	}
	if problems := e.Validate(); len(problems) > 0 {
		return problemsError(problems)
	}
	if err := s.backend.UpdateTemplateContent(ctx, templateID, e.Template()); err != nil {
		return fmt.Errorf("update template content: %w", err)
	}
	if err := s.drafts.Delete(ctx, templateID); err != nil {
		s.logger.WarnContext(ctx, "failed to discard saved draft", "template_id", templateID, "error", err)
	}
	s.logger.InfoContext(ctx, "template saved", "template_id", templateID, "nodes", e.Len())
	return nil
}

// Discard drops the draft without saving.
func (s *TemplateService) Discard(ctx context.Context, templateID string) error {
	defer s.locks.lock(templateID)()
	if err := s.drafts.Delete(ctx, templateID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func problemsError(problems []template.Problem) error {
	failures := make(map[string][]string)
	for _, p := range problems {
		key := "template"
		if p.NodeID != 0 {
			key = "node-" + strconv.Itoa(p.NodeID)
		}
		failures[key] = append(failures[key], p.Message)
	}
	return apperrors.ValidationFailures("The template has problems", failures, "")
}

var editMessages = map[error]string{
	template.ErrInvalidParent:     "Select a valid parent",
	template.ErrRootMustBeLine:    "Only funding lines can be added at the top level",
	template.ErrCalculationParent: "A calculation cannot contain funding lines",
	template.ErrCycle:             "A node cannot be moved beneath itself",
}

func editError(err error) error {
	switch {
	case errors.Is(err, template.ErrNodeNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Node not found")
	case errors.Is(err, template.ErrNothingToUndo):
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, "There is nothing to undo")
	case errors.Is(err, template.ErrNothingToRedo):
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, "There is nothing to redo")
	case errors.Is(err, template.ErrNameRequired):
		appErr := apperrors.Wrap(err, apperrors.ErrCodeValidation, "Enter a name")
		appErr.Field = "name"
		return appErr
	}
	for target, msg := range editMessages {
		if errors.Is(err, target) {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, msg)
		}
	}
	return apperrors.Wrap(err, apperrors.ErrCodeValidation, "The change could not be made")
}
