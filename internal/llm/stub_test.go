package llm

import (
	"context"
	"sync"
)

// stubClient replays scripted replies and records requests.
type stubClient struct {
	err      error
	block    bool
	replies  []string
	requests []CompletionRequest
	errs     []error
	mu       sync.Mutex
}

func (s *stubClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	n := len(s.requests)
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if n <= len(s.errs) && s.errs[n-1] != nil {
		return "", s.errs[n-1]
	}
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	if n > len(s.replies) {
		return s.replies[len(s.replies)-1], nil
	}
	return s.replies[n-1], nil
}

func (s *stubClient) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
