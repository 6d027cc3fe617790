package services

import (
	"context"
	"sync"

	"github.com/jagman11/match--royale/models"
)

// Subscription is an owned handle on a channel listener; it must be released with Unsubscribe.
// Updates holds at most one pending snapshot: a newer snapshot replaces an unread older one,
// so a slow reader never blocks senders and always ends on the latest history.
type Subscription struct {
	channelID string
	updates   chan []models.Message
	remove    func(*Subscription)
	stopCtx   func() bool

	mu     sync.Mutex
	closed bool
}

func newSubscription(channelID string, remove func(*Subscription)) *Subscription {
	return &Subscription{
		channelID: channelID,
		updates:   make(chan []models.Message, 1),
		remove:    remove,
	}
}

// ChannelID returns the channel this subscription listens on
func (sub *Subscription) ChannelID() string {
	return sub.channelID
}

// Updates delivers full-history snapshots; it is closed after Unsubscribe
func (sub *Subscription) Updates() <-chan []models.Message {
	return sub.updates
}

// watch ends the subscription once ctx is done
func (sub *Subscription) watch(ctx context.Context) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.stopCtx = context.AfterFunc(ctx, sub.Unsubscribe)
}

func (sub *Subscription) offer(snapshot []models.Message) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	select {
	case <-sub.updates:
	default:
	}
	sub.updates <- append([]models.Message(nil), snapshot...)
}

// Unsubscribe releases the listener. It is safe to call more than once.
func (sub *Subscription) Unsubscribe() {
	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return
	}
	sub.closed = true
	close(sub.updates)
	stop := sub.stopCtx
	sub.mu.Unlock()

	if stop != nil {
		stop()
	}
	sub.remove(sub)
}
