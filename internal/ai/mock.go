package ai

import (
	"context"
	"sync"
	"time"

	"github.com/coincat/coincat/internal/common"
)

// MockClient is a scripted Client implementation for tests.
type MockClient struct {
	// Responses maps a normalized description to its scripted response.
	Responses map[string]CategorizeResponse
	// Default is returned for descriptions without a scripted response.
	Default CategorizeResponse
	// Err, when set, is returned for every call.
	Err error
	// Delay simulates provider latency.
	Delay time.Duration

	mu    sync.Mutex
	calls []CategorizeRequest
}

// NewMockClient creates a mock that answers every request with resp.
func NewMockClient(resp CategorizeResponse) *MockClient {
	return &MockClient{Default: resp}
}

// Categorize records the call and returns the scripted response.
func (m *MockClient) Categorize(ctx context.Context, req CategorizeRequest) (CategorizeResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return CategorizeResponse{}, ctx.Err()
		case <-time.After(m.Delay):
		}
	}

	if m.Err != nil {
		return CategorizeResponse{}, m.Err
	}

	if resp, ok := m.Responses[req.Description]; ok {
		return resp, nil
	}
	if m.Default.Category == "" {
		return CategorizeResponse{}, common.Permanent(common.ErrNoResult)
	}
	return m.Default, nil
}

// Calls returns a copy of every recorded request.
func (m *MockClient) Calls() []CategorizeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CategorizeRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of external calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
