package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"groupchatgo/internal/chat"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must be < pongWait
	maxMessageSize = 4096
)

type WsServer struct {
	registry *chat.Registry
	jokes    chat.JokeSource
	upgrader websocket.Upgrader
}

func NewWsServer(registry *chat.Registry, jokes chat.JokeSource) *WsServer {
	return &WsServer{
		registry: registry,
		jokes:    jokes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true }, // dev-only
		},
	}
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

// Handle upgrades GET /chat/:room/ws. The room name comes from the last path
// segment of the page the client loaded.
func (s *WsServer) Handle(ginCtx *gin.Context) {
	roomName := ginCtx.Param("room")
	if roomName == "" {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"error": "room name is required"})
		return
	}

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}

	conn := &clientConn{rawConn: rawConn}
	session := chat.NewSession(s.registry, roomName, conn.writeJSON, s.jokes)

	go session.Run()
	go s.reader(session, conn)
	go s.pinger(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) reader(session *chat.Session, conn *clientConn) {
	defer func() {
		session.HandleClose()
		conn.rawConn.Close()
	}()

	conn.rawConn.SetReadLimit(maxMessageSize)
	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.rawConn.ReadMessage()
		if err != nil {
			return // client closed or errored
		}
		// Undecodable frames are logged and skipped; the connection stays up.
		if err := session.HandleMessage(raw); err != nil {
			zap.L().Debug("ws.bad_frame",
				zap.String("room", session.Room().Name()), zap.Error(err))
		}
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			_ = conn.rawConn.Close()
			return
		}
	}
}
