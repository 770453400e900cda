package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/calcfunding/portal/internal/domain/model"
	"github.com/calcfunding/portal/internal/domain/template"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/mocks"
)

const templateContent = `{
  "schemaVersion": "1.1",
  "fundingLines": [
    {"templateLineId": 1, "name": "Total", "fundingLineCode": "T-001", "type": "Payment",
     "fundingLines": [], "calculations": []}
  ]
}`

func newTemplateService(t *testing.T) (*TemplateService, *mocks.MockBackend, *template.MemoryDraftStore) {
	t.Helper()
	backend := mocks.NewMockBackend(gomock.NewController(t))
	drafts := template.NewMemoryDraftStore(time.Hour)
	svc, err := NewTemplateService(TemplateServiceOptions{Backend: backend, Drafts: drafts})
	require.NoError(t, err)
	return svc, backend, drafts
}

func TestTemplateService_OpenLoadsOnceThenUsesDraft(t *testing.T) {
	svc, backend, _ := newTemplateService(t)
	backend.EXPECT().GetTemplate(gomock.Any(), "tpl-1").
		Return(model.TemplateSummary{TemplateID: "tpl-1", Content: templateContent}, nil).Times(1)

	d, err := svc.Open(context.Background(), "tpl-1")
	require.NoError(t, err)
	require.Len(t, d.Editor.Roots(), 1)
	assert.Empty(t, d.Problems)

	root := d.Editor.Roots()[0]
	_, _, err = svc.AddNode(context.Background(), "tpl-1", root, template.NodeSpec{
		Kind: template.KindCalculation,
		Name: "Pupil count",
	})
	require.NoError(t, err)

	d, err = svc.Open(context.Background(), "tpl-1")
	require.NoError(t, err)
	assert.Equal(t, 2, d.Editor.Len())
}

func TestTemplateService_EmptyContentStartsBlankEditor(t *testing.T) {
	svc, backend, _ := newTemplateService(t)
	backend.EXPECT().GetTemplate(gomock.Any(), "tpl-1").Return(model.TemplateSummary{TemplateID: "tpl-1"}, nil)

	d, err := svc.Open(context.Background(), "tpl-1")
	require.NoError(t, err)
	assert.Zero(t, d.Editor.Len())
}

func TestTemplateService_UnreadableContent(t *testing.T) {
	svc, backend, _ := newTemplateService(t)
	backend.EXPECT().GetTemplate(gomock.Any(), "tpl-1").Return(model.TemplateSummary{Content: "{not json"}, nil)

	_, err := svc.Open(context.Background(), "tpl-1")
	assert.Equal(t, apperrors.ErrCodeBusiness, apperrors.GetCode(err))
}

func TestTemplateService_EditErrors(t *testing.T) {
	svc, backend, _ := newTemplateService(t)
	backend.EXPECT().GetTemplate(gomock.Any(), "tpl-1").Return(model.TemplateSummary{Content: templateContent}, nil)

	_, _, err := svc.AddNode(context.Background(), "tpl-1", 0, template.NodeSpec{Kind: template.KindCalculation, Name: "Orphan"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Only funding lines can be added at the top level")

	_, _, err = svc.AddNode(context.Background(), "tpl-1", 0, template.NodeSpec{Kind: template.KindFundingLine, Name: "  "})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "name", appErr.Field)

	_, err = svc.RemoveNode(context.Background(), "tpl-1", 999)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Undo(context.Background(), "tpl-1")
	assert.True(t, apperrors.IsConflict(err))
}

func TestTemplateService_UndoRedoPersist(t *testing.T) {
	svc, backend, _ := newTemplateService(t)
	backend.EXPECT().GetTemplate(gomock.Any(), "tpl-1").Return(model.TemplateSummary{Content: templateContent}, nil)
	ctx := context.Background()

	d, err := svc.Open(ctx, "tpl-1")
	require.NoError(t, err)
	root := d.Editor.Roots()[0]

	_, err = svc.RemoveNode(ctx, "tpl-1", root)
	require.NoError(t, err)
	d, err = svc.Undo(ctx, "tpl-1")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Editor.Len())
	assert.True(t, d.Editor.CanRedo())

	d, err = svc.Redo(ctx, "tpl-1")
	require.NoError(t, err)
	assert.Zero(t, d.Editor.Len())
}

func TestTemplateService_SaveBlocksOnProblems(t *testing.T) {
	svc, backend, _ := newTemplateService(t)
	backend.EXPECT().GetTemplate(gomock.Any(), "tpl-1").Return(model.TemplateSummary{Content: templateContent}, nil)
	backend.EXPECT().UpdateTemplateContent(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	ctx := context.Background()

	_, id, err := svc.AddNode(ctx, "tpl-1", 0, template.NodeSpec{
		Kind:     template.KindFundingLine,
		Name:     "Top up",
		LineType: template.LineTypePayment,
	})
	require.NoError(t, err)

	err = svc.Save(ctx, "tpl-1")
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Failures, "node-"+strconv.Itoa(id))
}

func TestTemplateService_SaveWritesAndDiscardsDraft(t *testing.T) {
	svc, backend, drafts := newTemplateService(t)
	backend.EXPECT().GetTemplate(gomock.Any(), "tpl-1").Return(model.TemplateSummary{Content: templateContent}, nil)
	backend.EXPECT().UpdateTemplateContent(gomock.Any(), "tpl-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, tpl template.Template) error {
			require.Len(t, tpl.FundingLines, 1)
			assert.Equal(t, "Total", tpl.FundingLines[0].Name)
			return nil
		})
	ctx := context.Background()

	_, err := svc.Open(ctx, "tpl-1")
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, "tpl-1"))

	_, err = drafts.Load(ctx, "tpl-1")
	assert.ErrorIs(t, err, template.ErrDraftNotFound)
}

func TestTemplateService_BlankTemplateID(t *testing.T) {
	svc, _, _ := newTemplateService(t)
	_, err := svc.Open(context.Background(), " ")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "templateId", appErr.Field)
}

func TestTemplateService_ConcurrentAddsGetDistinctIDs(t *testing.T) {
	svc, backend, drafts := newTemplateService(t)
	backend.EXPECT().GetTemplate(gomock.Any(), "tpl-1").
		Return(model.TemplateSummary{Content: templateContent}, nil).Times(1)
	ctx := context.Background()

	const adds = 100
	ids := make(chan int, adds)
	var wg sync.WaitGroup
	for i := range adds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, id, err := svc.AddNode(ctx, "tpl-1", 0, template.NodeSpec{
				Kind: template.KindFundingLine,
				Name: "Line " + strconv.Itoa(i),
			})
			if assert.NoError(t, err) {
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, adds)
	for id := range ids {
		assert.False(t, seen[id], "id %d returned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, adds)

	stored, err := drafts.Load(ctx, "tpl-1")
	require.NoError(t, err)
	assert.Equal(t, adds+1, stored.Len(), "the loaded line plus every add")
	for id := range seen {
		_, ok := stored.Node(id)
		assert.True(t, ok, "node %d missing from the draft", id)
	}
}

func TestTemplateService_MissingTemplate(t *testing.T) {
	svc, backend, _ := newTemplateService(t)
	backend.EXPECT().GetTemplate(gomock.Any(), "tpl-9").
		Return(model.TemplateSummary{}, apperrors.NotFound("not found"))

	_, err := svc.Open(context.Background(), "tpl-9")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Template tpl-9 was not found", err.Error())
}
