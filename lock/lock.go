// Package lock serialises read-modify-write cycles on a single key, such as
// one user's cart.
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
)

// Locker grants exclusive ownership of a key until the returned release
// func is called. Release is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// DefaultWait bounds how long Lock waits for a busy key.
const DefaultWait = 5 * time.Second

func busy(key string) error {
	return apperrors.Conflict("%s is busy, please retry", key)
}

// Local is an in-process Locker for single-instance deployments and tests.
type Local struct {
	mu    sync.Mutex
	slots map[string]*slot
	wait  time.Duration
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{slots: make(map[string]*slot), wait: DefaultWait}
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, s)
		return nil, busy(key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.drop(key, s)
		})
	}, nil
}

func (l *Local) drop(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
