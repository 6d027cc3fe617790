package socket

import (
	"context"
	"sync"

	"github.com/jagman11/match--royale/models"
	"github.com/jagman11/match--royale/services"
	"go.uber.org/zap"
)

// Emitter pushes an event to one connected client
type Emitter interface {
	Emit(eventName string, v ...interface{})
}

// TokenVerifier resolves an access token to the signed-in user id
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// Snapshot is the payload of the "messages" event
type Snapshot struct {
	ChannelID string           `json:"channelId"`
	Messages  []models.Message `json:"messages"`
}

// Hub opens chat sessions for authenticated connections
type Hub struct {
	Chat *services.ChatService
	Auth TokenVerifier
	Log  *zap.SugaredLogger
}

// Session is the chat state of one connection. Every subscription it holds is
// released when the session closes.
type Session struct {
	UserID string

	hub    *Hub
	out    Emitter
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	subs map[string]*services.Subscription // by channel id
}

// Open authenticates token and starts a session emitting to out
func (h *Hub) Open(token string, out Emitter) (*Session, error) {
	userID, err := h.Auth.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		UserID: userID,
		hub:    h,
		out:    out,
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[string]*services.Subscription),
	}, nil
}

// Join subscribes to the conversation with peerID; joining twice is a no-op
func (s *Session) Join(peerID string) error {
	channelID, err := services.ChannelID(s.UserID, peerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[channelID]; ok {
		return nil
	}
	sub, err := s.hub.Chat.Listen(s.ctx, channelID, func(messages []models.Message) {
		s.out.Emit("messages", Snapshot{ChannelID: channelID, Messages: messages})
	})
	if err != nil {
		return err
	}
	s.subs[channelID] = sub
	s.hub.Log.Debugf("👥 %s joined %s", s.UserID, channelID)
	return nil
}

// Leave releases the subscription on the conversation with peerID
func (s *Session) Leave(peerID string) {
	channelID, err := services.ChannelID(s.UserID, peerID)
	if err != nil {
		return
	}
	s.mu.Lock()
	sub, ok := s.subs[channelID]
	delete(s.subs, channelID)
	s.mu.Unlock()
	if ok {
		sub.Unsubscribe()
	}
}

// Send appends text to the conversation with peerID
func (s *Session) Send(peerID, text string) (models.Message, error) {
	channelID, err := services.ChannelID(s.UserID, peerID)
	if err != nil {
		return models.Message{}, err
	}
	return s.hub.Chat.Send(s.ctx, channelID, s.UserID, text)
}

// Joined reports the number of conversations the session listens on
func (s *Session) Joined() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close releases every subscription of the session
func (s *Session) Close() {
	s.cancel()
	s.mu.Lock()
	subs := s.subs
	s.subs = make(map[string]*services.Subscription)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
