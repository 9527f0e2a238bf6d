package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"groupchatgo/internal/chat"
)

type stubJokes struct {
	joke string
}

func (s stubJokes) Fetch(context.Context) (string, error) { return s.joke, nil }

type wireMsg struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Text string `json:"text"`
}

func newTestServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	srv := NewWsServer(chat.NewRegistry(), stubJokes{joke: "A dad joke."})
	engine.GET("/chat/:room/ws", srv.Handle)

	ts := httptest.NewServer(engine)
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, base, room string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(base+"/chat/"+room+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) wireMsg {
	t.Helper()
	var msg wireMsg
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestJoinOverWebsocket(t *testing.T) {
	base := newTestServer(t)
	conn := dial(t, base, "lobby")

	require.NoError(t, conn.WriteJSON(map[string]string{"kind": "join", "name": "bob"}))

	msg := readMsg(t, conn)
	require.Equal(t, wireMsg{Kind: "note", Text: `bob joined "lobby".`}, msg)
}

func TestChatBetweenTwoClients(t *testing.T) {
	base := newTestServer(t)

	bob := dial(t, base, "lobby")
	require.NoError(t, bob.WriteJSON(map[string]string{"kind": "join", "name": "bob"}))
	require.Equal(t, `bob joined "lobby".`, readMsg(t, bob).Text)

	eve := dial(t, base, "lobby")
	require.NoError(t, eve.WriteJSON(map[string]string{"kind": "join", "name": "eve"}))
	require.Equal(t, `eve joined "lobby".`, readMsg(t, eve).Text)
	require.Equal(t, `eve joined "lobby".`, readMsg(t, bob).Text)

	require.NoError(t, bob.WriteJSON(map[string]string{"kind": "chat", "text": "hello"}))

	want := wireMsg{Kind: "chat", Name: "bob", Text: "hello"}
	require.Equal(t, want, readMsg(t, bob))
	require.Equal(t, want, readMsg(t, eve))
}

func TestRoomsAreIsolated(t *testing.T) {
	base := newTestServer(t)

	bob := dial(t, base, "lobby")
	require.NoError(t, bob.WriteJSON(map[string]string{"kind": "join", "name": "bob"}))
	require.Equal(t, `bob joined "lobby".`, readMsg(t, bob).Text)

	eve := dial(t, base, "dev")
	require.NoError(t, eve.WriteJSON(map[string]string{"kind": "join", "name": "eve"}))
	require.Equal(t, `eve joined "dev".`, readMsg(t, eve).Text)

	require.NoError(t, eve.WriteJSON(map[string]string{"kind": "chat", "text": "dev only"}))
	require.Equal(t, "dev only", readMsg(t, eve).Text)

	// Nothing from the dev room may reach bob; the next message on bob's
	// connection is the echo of bob's own chat.
	require.NoError(t, bob.WriteJSON(map[string]string{"kind": "chat", "text": "lobby only"}))
	require.Equal(t, "lobby only", readMsg(t, bob).Text)
}

func TestUndecodableFrameKeepsConnectionOpen(t *testing.T) {
	base := newTestServer(t)
	conn := dial(t, base, "lobby")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{definitely not json")))
	require.NoError(t, conn.WriteJSON(map[string]string{"kind": "join", "name": "bob"}))

	require.Equal(t, `bob joined "lobby".`, readMsg(t, conn).Text)
}

func TestDisconnectAnnouncesLeave(t *testing.T) {
	base := newTestServer(t)

	bob := dial(t, base, "lobby")
	require.NoError(t, bob.WriteJSON(map[string]string{"kind": "join", "name": "bob"}))
	require.Equal(t, `bob joined "lobby".`, readMsg(t, bob).Text)

	eve := dial(t, base, "lobby")
	require.NoError(t, eve.WriteJSON(map[string]string{"kind": "join", "name": "eve"}))
	require.Equal(t, `eve joined "lobby".`, readMsg(t, eve).Text)
	require.Equal(t, `eve joined "lobby".`, readMsg(t, bob).Text)

	require.NoError(t, eve.Close())

	require.Equal(t, wireMsg{Kind: "note", Text: "eve left lobby."}, readMsg(t, bob))
}

func TestJokeCommandOverWebsocket(t *testing.T) {
	base := newTestServer(t)
	conn := dial(t, base, "lobby")

	require.NoError(t, conn.WriteJSON(map[string]string{"kind": "join", "name": "bob"}))
	require.Equal(t, `bob joined "lobby".`, readMsg(t, conn).Text)

	require.NoError(t, conn.WriteJSON(map[string]string{"kind": "joke"}))
	require.Equal(t, wireMsg{Kind: "chat", Name: "bob", Text: "[PRIVATE] A dad joke."}, readMsg(t, conn))
}
