package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/nikolayk812/lunchorder/internal/domain"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event domain.ChangeEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) Events() []domain.ChangeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]domain.ChangeEvent(nil), n.events...)
}

const adminToken = "Bearer s3cret"

type fakeGate struct {
	err error
}

func (g fakeGate) IsAdmin(_ context.Context, authorization string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	return authorization == adminToken, nil
}

var errGateDown = errors.New("connection refused")
