package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/calcfunding/portal/internal/domain/auth"
	"github.com/calcfunding/portal/internal/domain/template"
	"github.com/calcfunding/portal/internal/mocks"
	mockauth "github.com/calcfunding/portal/internal/mocks/auth"
	"github.com/calcfunding/portal/internal/service"
)

const (
	testToken   = "token-analyst"
	outsiderTok = "token-outsider"
)

type testRouter struct {
	handler http.Handler
	backend *mocks.MockBackend
}

type routerOption func(*RouterServices)

func withGate(g Gate) routerOption {
	return func(s *RouterServices) { s.Gate = g }
}

func newTestRouter(t *testing.T, opts ...routerOption) *testRouter {
	t.Helper()
	backend := mocks.NewMockBackend(gomock.NewController(t))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	jobs, err := service.NewJobService(service.JobServiceOptions{Jobs: backend, Logger: logger})
	require.NoError(t, err)
	datasets, err := service.NewDatasetService(service.DatasetServiceOptions{Backend: backend, Logger: logger})
	require.NoError(t, err)
	specs, err := service.NewSpecificationService(service.SpecificationServiceOptions{Backend: backend, Logger: logger})
	require.NoError(t, err)
	funding, err := service.NewFundingService(service.FundingServiceOptions{Backend: backend, Logger: logger})
	require.NoError(t, err)
	templates, err := service.NewTemplateService(service.TemplateServiceOptions{
		Backend: backend,
		Drafts:  template.NewMemoryDraftStore(time.Hour),
		Logger:  logger,
	})
	require.NoError(t, err)

	verifier := mockauth.NewTableVerifier().
		Add(testToken, domainauth.Identity{UserID: "u-1", DisplayName: "Ana Lyst", Groups: []string{"funding"}}).
		Add(outsiderTok, domainauth.Identity{UserID: "u-2", Groups: []string{"other"}})

	rs := RouterServices{
		Jobs:           jobs,
		Datasets:       datasets,
		Specifications: specs,
		Funding:        funding,
		Templates:      templates,
		Verifier:       verifier,
		Logger:         logger,
	}
	for _, o := range opts {
		o(&rs)
	}
	return &testRouter{handler: NewRouter(rs), backend: backend}
}

func (tr *testRouter) do(req *http.Request) *httptest.ResponseRecorder {
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)
	return rec
}

func (tr *testRouter) get(path string) *httptest.ResponseRecorder {
	return tr.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (tr *testRouter) postForm(method, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tr.do(req)
}
