package core

import (
	"context"
	"sync"
)

// fakeGenerator replays scripted output and records every request.
type fakeGenerator struct {
	mu       sync.Mutex
	output   string
	err      error
	block    bool
	requests []JSONRequest
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, req JSONRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	out, err, block := f.output, f.err, f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return out, err
}

func (f *fakeGenerator) Close() error { return nil }

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeGenerator) lastRequest() JSONRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return JSONRequest{}
	}
	return f.requests[len(f.requests)-1]
}
