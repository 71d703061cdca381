package engine

import (
	"context"
	"sync"

	"github.com/seralys/inciwise/internal/zeroshot"
)

// MockClassifier is a scripted implementation of the Classifier interface.
// It returns deterministic classifications keyed by input text for testing.
type MockClassifier struct {
	responses map[string]zeroshot.Classification
	failures  map[string]error
	err       error
	calls     []MockClassifierCall
	mu        sync.Mutex
}

// MockClassifierCall records details of a classification request.
type MockClassifierCall struct {
	Text   string
	Labels []string
}

// NewMockClassifier creates a new mock classifier.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{
		responses: make(map[string]zeroshot.Classification),
		failures:  make(map[string]error),
	}
}

// SetResponse scripts the classification returned for a given text.
func (m *MockClassifier) SetResponse(text string, classification zeroshot.Classification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[text] = classification
}

// SetError makes every subsequent call fail with err.
func (m *MockClassifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetErrorFor makes calls for a specific text fail with err.
func (m *MockClassifier) SetErrorFor(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[text] = err
}

// Classify returns the scripted classification for the text. Unscripted
// texts yield an empty classification, which no threshold accepts.
func (m *MockClassifier) Classify(_ context.Context, text string, labels []string) (zeroshot.Classification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockClassifierCall{Text: text, Labels: labels})

	if m.err != nil {
		return zeroshot.Classification{}, m.err
	}
	if err, ok := m.failures[text]; ok {
		return zeroshot.Classification{}, err
	}
	return m.responses[text], nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// GetCalls returns all recorded calls for verification in tests.
func (m *MockClassifier) GetCalls() []MockClassifierCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]MockClassifierCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Reset clears all recorded calls and scripted behavior.
func (m *MockClassifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.err = nil
	m.responses = make(map[string]zeroshot.Classification)
	m.failures = make(map[string]error)
}
