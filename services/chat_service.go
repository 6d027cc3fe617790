package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jagman11/match--royale/models"
	"go.uber.org/zap"
)

// ChatService is the append-only message log of pairwise channels with live snapshot delivery.
//
// Each append and each subscribe on a channel runs under that channel's lock, so every
// subscriber observes snapshots in store order and never an older snapshot after a newer one.
// Delivery is process local; snapshots are read back from the MessageStore.
type ChatService struct {
	Messages MessageStore
	Log      *zap.SugaredLogger

	now func() time.Time

	mu        sync.Mutex // guards channels, refs and subscriber sets
	lastStamp int64
	channels  map[string]*channelState
}

type channelState struct {
	mu   sync.Mutex // serializes append, reload and broadcast
	refs int
	subs map[*Subscription]struct{}
}

// NewChatService creates a ChatService over the given message store
func NewChatService(messages MessageStore, log *zap.SugaredLogger) *ChatService {
	return &ChatService{
		Messages: messages,
		Log:      log,
		now:      time.Now,
		channels: make(map[string]*channelState),
	}
}

// acquire pins the state of a channel so it is not evicted while in use
func (s *ChatService) acquire(channelID string) *channelState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.channels[channelID]
	if !ok {
		st = &channelState{subs: make(map[*Subscription]struct{})}
		s.channels[channelID] = st
	}
	st.refs++
	return st
}

func (s *ChatService) release(channelID string, st *channelState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.refs--
	s.evictLocked(channelID, st)
}

func (s *ChatService) evictLocked(channelID string, st *channelState) {
	if st.refs == 0 && len(st.subs) == 0 && s.channels[channelID] == st {
		delete(s.channels, channelID)
	}
}

func (s *ChatService) subscribers(st *channelState) []*Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := make([]*Subscription, 0, len(st.subs))
	for sub := range st.subs {
		subs = append(subs, sub)
	}
	return subs
}

// nextStamp returns a process-wide strictly increasing nanosecond stamp
func (s *ChatService) nextStamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp := s.now().UnixNano()
	if stamp <= s.lastStamp {
		stamp = s.lastStamp + 1
	}
	s.lastStamp = stamp
	return stamp
}

// Send appends text from senderID to the channel and pushes the new history to every subscriber.
// Whitespace-only text and senders outside the channel are rejected before reaching the store.
func (s *ChatService) Send(ctx context.Context, channelID, senderID, text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, ErrEmptyMessage
	}
	a, b, err := ParseChannelID(channelID)
	if err != nil {
		return models.Message{}, err
	}
	if senderID != a && senderID != b {
		return models.Message{}, fmt.Errorf("%s in %s: %w", senderID, channelID, ErrNotParticipant)
	}

	st := s.acquire(channelID)
	defer s.release(channelID, st)
	st.mu.Lock()
	defer st.mu.Unlock()

	stamp := s.nextStamp()
	id := uuid.NewString()
	message := models.Message{
		ChannelID: channelID,
		SortKey:   fmt.Sprintf("%019d#%s", stamp, id),
		MessageID: id,
		Sender:    senderID,
		Text:      text,
		Timestamp: stamp / int64(time.Millisecond),
	}

	s.Log.Debugf("📩 Storing message %s in %s", id, channelID)
	if err := s.Messages.AppendMessage(ctx, message); err != nil {
		s.Log.Errorf("❌ Failed to store message in %s: %v", channelID, err)
		return models.Message{}, fmt.Errorf("failed to send message: %w", err)
	}

	subs := s.subscribers(st)
	if len(subs) == 0 {
		return message, nil
	}
	history, err := s.Messages.ListMessages(ctx, channelID)
	if err != nil {
		// The append succeeded; subscribers catch up on the next snapshot.
		s.Log.Warnf("⚠️ Message %s stored but snapshot reload for %s failed: %v", id, channelID, err)
		return message, nil
	}
	for _, sub := range subs {
		sub.offer(history)
	}
	return message, nil
}

// History returns the full ordered history of a channel
func (s *ChatService) History(ctx context.Context, channelID string) ([]models.Message, error) {
	if _, _, err := ParseChannelID(channelID); err != nil {
		return nil, err
	}
	history, err := s.Messages.ListMessages(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return history, nil
}

// Subscribe registers a listener on a channel. The first snapshot carries the current history,
// every later append delivers the full history again. The subscription ends on Unsubscribe or
// when ctx is done.
func (s *ChatService) Subscribe(ctx context.Context, channelID string) (*Subscription, error) {
	if _, _, err := ParseChannelID(channelID); err != nil {
		return nil, err
	}

	st := s.acquire(channelID)
	defer s.release(channelID, st)
	st.mu.Lock()
	defer st.mu.Unlock()

	history, err := s.Messages.ListMessages(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of %s: %w", channelID, err)
	}

	sub := newSubscription(channelID, s.unsubscribe)
	s.mu.Lock()
	st.subs[sub] = struct{}{}
	s.mu.Unlock()

	sub.offer(history)
	sub.watch(ctx)
	s.Log.Debugf("👥 New subscriber on %s", channelID)
	return sub, nil
}

// Listen subscribes and feeds every snapshot to onUpdate from a single goroutine, in order
func (s *ChatService) Listen(ctx context.Context, channelID string, onUpdate func([]models.Message)) (*Subscription, error) {
	sub, err := s.Subscribe(ctx, channelID)
	if err != nil {
		return nil, err
	}
	go func() {
		for snapshot := range sub.Updates() {
			onUpdate(snapshot)
		}
	}()
	return sub, nil
}

func (s *ChatService) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.channels[sub.channelID]
	if !ok {
		return
	}
	delete(st.subs, sub)
	s.evictLocked(sub.channelID, st)
	s.Log.Debugf("👋 Subscriber left %s", sub.channelID)
}
