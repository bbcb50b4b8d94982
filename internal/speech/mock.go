package speech

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockEngine.
type MockResponse struct {
	Data   []byte
	Format string
	Err    error
}

// MockEngine is a deterministic Engine for testing and for the "mock"
// provider. It returns canned responses in FIFO order and records all
// requests. With an empty queue it returns a short silent clip, unless
// Strict is set, in which case it fails with ErrProviderUnavailable.
type MockEngine struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
	Strict    bool
}

// NewMockEngine creates a MockEngine with the given canned responses.
func NewMockEngine(responses ...MockResponse) *MockEngine {
	return &MockEngine{responses: responses}
}

func (m *MockEngine) Synthesize(_ context.Context, req Request) (*Audio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		if m.Strict {
			return nil, &ErrProviderUnavailable{}
		}
		return &Audio{Data: silence(), Format: FormatWAV}, nil
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return nil, resp.Err
	}
	format := resp.Format
	if format == "" {
		format = FormatWAV
	}
	return &Audio{Data: resp.Data, Format: format}, nil
}

// Name returns "mock".
func (m *MockEngine) Name() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockEngine) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Synthesize calls made.
func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// silence is 100ms of 24kHz mono silence.
func silence() []byte {
	return wrapPCM(make([]byte, geminiSampleRate/10*2), geminiSampleRate, 1, 16)
}
