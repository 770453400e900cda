// Package mocks provides gomock doubles for the portal's ports.
//
// To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	backend := mocks.NewMockBackend(ctrl)
//	backend.EXPECT().GetJob(gomock.Any(), "job-1").Return(model.JobDetails{JobID: "job-1"}, nil)
package mocks

// MockBackend covers every funding platform call: specifications, datasets,
// jobs, funding actions, templates and permissions.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_mock.go github.com/calcfunding/portal/internal/ports Backend

// MockTokenVerifier stands in for the OIDC verifier.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_verifier_mock.go github.com/calcfunding/portal/internal/ports TokenVerifier
