package services

import "sync"

// recordingPublisher captures change notifications so tests can assert
// that mutations signal the live engine.
type recordingPublisher struct {
	mu      sync.Mutex
	userIDs []string
}

func (p *recordingPublisher) Publish(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userIDs = append(p.userIDs, userID)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.userIDs)
}
