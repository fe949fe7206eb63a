// Package notices holds the badge count and the transient confirmation banner
// for each shopper session.
package notices

import (
	"context"
	"sync"
	"time"

	"github.com/jravahfoods/storefront/internal/cart"
	"github.com/jravahfoods/storefront/pkg/logger"
)

type sessionState struct {
	count  int
	notice *cart.Notice
}

// Feed keeps one banner per session. A new notice replaces the previous one,
// and a notice disappears once its expiry has passed.
type Feed struct {
	mu       sync.Mutex
	sessions map[string]*sessionState
}

func NewFeed() *Feed {
	return &Feed{sessions: make(map[string]*sessionState)}
}

// For returns the notifier a session's cart engine reports to.
func (f *Feed) For(sessionID string) cart.Notifier {
	return sessionNotifier{feed: f, sessionID: sessionID}
}

// Count is the last badge count reported for the session.
func (f *Feed) Count(sessionID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if state, ok := f.sessions[sessionID]; ok {
		return state.count
	}
	return 0
}

// Pending returns the session's banner if it is still showing at now.
func (f *Feed) Pending(sessionID string, now time.Time) []cart.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.sessions[sessionID]
	if !ok || state.notice == nil {
		return []cart.Notice{}
	}
	if !now.Before(state.notice.ExpiresAt) {
		state.notice = nil
		return []cart.Notice{}
	}
	return []cart.Notice{*state.notice}
}

// Forget drops everything held for the session.
func (f *Feed) Forget(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
}

func (f *Feed) state(sessionID string) *sessionState {
	state, ok := f.sessions[sessionID]
	if !ok {
		state = &sessionState{}
		f.sessions[sessionID] = state
	}
	return state
}

type sessionNotifier struct {
	feed      *Feed
	sessionID string
}

func (n sessionNotifier) CountChanged(_ context.Context, count int) {
	n.feed.mu.Lock()
	defer n.feed.mu.Unlock()
	n.feed.state(n.sessionID).count = count
}

func (n sessionNotifier) Notify(_ context.Context, notice cart.Notice) {
	n.feed.mu.Lock()
	defer n.feed.mu.Unlock()
	n.feed.state(n.sessionID).notice = &notice
}

// LogNotifier writes every notice to the structured log.
type LogNotifier struct {
	Logger *logger.Logger
}

func (LogNotifier) CountChanged(context.Context, int) {}

func (n LogNotifier) Notify(ctx context.Context, notice cart.Notice) {
	if n.Logger == nil {
		return
	}
	n.Logger.Info(n.Logger.WithFields(ctx, map[string]any{
		"notice_kind":    notice.Kind.String(),
		"notice_message": notice.Message,
	}), "cart notice")
}

// Multi fans every call out to each notifier in order.
type Multi []cart.Notifier

func (m Multi) CountChanged(ctx context.Context, count int) {
	for _, n := range m {
		n.CountChanged(ctx, count)
	}
}

func (m Multi) Notify(ctx context.Context, notice cart.Notice) {
	for _, n := range m {
		n.Notify(ctx, notice)
	}
}
