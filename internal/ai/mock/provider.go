package mock

import (
	"context"
	"sync"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// SampleReply is a complete, well-formed analysis reply.
const SampleReply = `{
  "summary": "Backend engineer building data services.",
  "suggestedSkills": ["go", "postgresql"],
  "requirements": {"required": ["go"], "preferred": ["kubernetes"], "experience": "5+ years", "education": "Not specified"},
  "insights": {"salaryRange": "Not specified", "location": "Remote", "companySize": "Not specified", "competitionLevel": "Medium", "industryTrends": []},
  "actionItems": ["Highlight Go services you shipped."]
}`

// MockProvider satisfies models.ChatProvider for testing and records every request.
type MockProvider struct {
	Name_        string
	CompleteFunc func(ctx context.Context, req models.CompletionRequest) (string, error)

	mu    sync.Mutex
	calls []models.CompletionRequest
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return SampleReply, nil
}

// Calls returns a copy of the requests received so far.
func (m *MockProvider) Calls() []models.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CompletionRequest(nil), m.calls...)
}

// NewMockProvider returns a provider that always answers with reply.
func NewMockProvider(name, reply string) *MockProvider {
	return &MockProvider{
		Name_: name,
		CompleteFunc: func(_ context.Context, _ models.CompletionRequest) (string, error) {
			return reply, nil
		},
	}
}

// NewFailingProvider returns a provider that always returns err.
func NewFailingProvider(name string, err error) *MockProvider {
	return &MockProvider{
		Name_: name,
		CompleteFunc: func(_ context.Context, _ models.CompletionRequest) (string, error) {
			return "", err
		},
	}
}

// NewScriptedProvider answers the n-th call with steps[n]; calls beyond the
// script repeat the last step.
func NewScriptedProvider(name string, steps ...Step) *MockProvider {
	var mu sync.Mutex
	n := 0
	return &MockProvider{
		Name_: name,
		CompleteFunc: func(_ context.Context, _ models.CompletionRequest) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			if len(steps) == 0 {
				return SampleReply, nil
			}
			s := steps[min(n, len(steps)-1)]
			n++
			return s.Reply, s.Err
		},
	}
}

// Step is one scripted provider answer.
type Step struct {
	Reply string
	Err   error
}

// StatusError builds the typed failure a real provider returns for an HTTP status.
func StatusError(provider string, status int, message string) error {
	return &models.ProviderError{Provider: provider, StatusCode: status, Message: message}
}

// NewTimeoutProvider returns a provider that blocks until ctx is cancelled.
func NewTimeoutProvider(name string) *MockProvider {
	return &MockProvider{
		Name_: name,
		CompleteFunc: func(ctx context.Context, _ models.CompletionRequest) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
}

// Compile-time check that MockProvider implements ChatProvider.
var _ models.ChatProvider = (*MockProvider)(nil)
