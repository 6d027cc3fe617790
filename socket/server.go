package socket

import (
	socketio "github.com/googollee/go-socket.io"
)

type peerPayload struct {
	PeerID string `json:"peerId"`
}

type messagePayload struct {
	PeerID string `json:"peerId"`
	Text   string `json:"text"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func sessionOf(c socketio.Conn) (*Session, bool) {
	session, ok := c.Context().(*Session)
	return session, ok
}

// NewSocketServer initializes and returns a new Socket.IO server.
// Clients connect with ?token=<access token>.
func NewSocketServer(hub *Hub) *socketio.Server {
	server := socketio.NewServer(nil)

	// Handle connection events
	server.OnConnect("/", func(c socketio.Conn) error {
		url := c.URL()
		session, err := hub.Open(url.Query().Get("token"), c)
		if err != nil {
			hub.Log.Debugf("🔒 Socket %s refused: %v", c.ID(), err)
			c.Emit("chatError", errorPayload{Error: "authentication required"})
			return err
		}
		c.SetContext(session)
		hub.Log.Infof("✅ Socket connected: %s (%s)", c.ID(), session.UserID)
		return nil
	})

	// Handle join events
	server.OnEvent("/", "join", func(c socketio.Conn, data peerPayload) {
		session, ok := sessionOf(c)
		if !ok {
			return
		}
		if err := session.Join(data.PeerID); err != nil {
			hub.Log.Warnf("❌ %s failed to join %s: %v", session.UserID, data.PeerID, err)
			c.Emit("chatError", errorPayload{Error: err.Error()})
		}
	})

	server.OnEvent("/", "leave", func(c socketio.Conn, data peerPayload) {
		if session, ok := sessionOf(c); ok {
			session.Leave(data.PeerID)
		}
	})

	// Handle sendMessage events
	server.OnEvent("/", "sendMessage", func(c socketio.Conn, data messagePayload) {
		session, ok := sessionOf(c)
		if !ok {
			return
		}
		if _, err := session.Send(data.PeerID, data.Text); err != nil {
			hub.Log.Warnf("❌ %s failed to send to %s: %v", session.UserID, data.PeerID, err)
			c.Emit("chatError", errorPayload{Error: err.Error()})
		}
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		hub.Log.Warnf("⚠️ Socket error: %v", err)
	})

	// Handle disconnection
	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		if session, ok := sessionOf(c); ok {
			session.Close()
		}
		hub.Log.Infof("❌ Socket disconnected: %s (%s)", c.ID(), reason)
	})

	return server
}
