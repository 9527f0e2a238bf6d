package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrBadMessageKind   = errors.New("bad message kind")
	ErrNotJoined        = errors.New("join a room first")
)

// SendFunc delivers one outbound wire message to the client. The transport
// supplies it; a failure is non-fatal to the session.
type SendFunc func(v any) error

// JokeSource asynchronously yields a joke string from an external service.
type JokeSource interface {
	Fetch(ctx context.Context) (string, error)
}

const opQueueSize = 32

// Session is the server-side state bound to one client connection. Inbound
// frames and async completions are serialized through a single operation
// queue, so at most one operation touches session state at a time.
type Session struct {
	id     string
	room   *Room
	sendFn SendFunc
	jokes  JokeSource

	// joined flips on the first join command; only the Run goroutine
	// touches it.
	joined bool

	mu   sync.RWMutex // guards name; rooms read it from other sessions' goroutines
	name string

	ops  chan func()
	done chan struct{}
}

// NewSession binds a freshly accepted connection to the room named by the
// connection target. The room is resolved through reg and fixed for the
// session's lifetime.
func NewSession(reg *Registry, roomName string, send SendFunc, jokes JokeSource) *Session {
	s := &Session{
		id:     uuid.NewString(),
		room:   reg.GetOrCreate(roomName),
		sendFn: send,
		jokes:  jokes,
		ops:    make(chan func(), opQueueSize),
		done:   make(chan struct{}),
	}
	zap.L().Debug("chat.session_created",
		zap.String("session_id", s.id), zap.String("room", s.room.name))
	return s
}

// Name returns the current display name; empty until the session joins.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Session) setName(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
}

func (s *Session) Room() *Room { return s.room }

// Run drains the operation queue until the close operation has run. The
// transport starts it on a dedicated goroutine, one per connection.
func (s *Session) Run() {
	for op := range s.ops {
		op()
		select {
		case <-s.done:
			return
		default:
		}
	}
}

// enqueue posts op onto the session's queue; ops arriving after close (a
// late joke completion, say) are dropped.
func (s *Session) enqueue(op func()) {
	select {
	case <-s.done:
	case s.ops <- op:
	}
}

// HandleMessage decodes one inbound frame and queues its dispatch. A frame
// that fails to decode is reported to the caller; the session keeps serving.
func (s *Session) HandleMessage(raw []byte) error {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	s.enqueue(func() { s.dispatch(msg) })
	return nil
}

// HandleClose is invoked once by the transport when the connection goes
// away. Safe even if the session never joined.
func (s *Session) HandleClose() {
	s.enqueue(func() {
		defer close(s.done)
		s.room.Leave(s)
		name := s.Name()
		if name == "" {
			name = "someone"
		}
		s.room.Broadcast(newNote(fmt.Sprintf("%s left %s.", name, s.room.name)))
	})
}

// dispatch routes one decoded frame. Everything except join requires a
// joined session; violations come back to the sender as a note.
func (s *Session) dispatch(msg Message) {
	if msg.Kind != "join" && !s.joined {
		s.send(newNote(fmt.Sprintf("error: %v", ErrNotJoined)))
		return
	}

	switch msg.Kind {
	case "join":
		s.handleJoin(msg.Name)
	case "chat":
		s.handleChat(msg.Text)
	case "nameChange":
		s.handleNameChange(msg.NewName)
	case "privateMessage":
		s.handlePrivate(msg.PM)
	case "members":
		s.handleMembers()
	case "joke":
		s.handleJoke()
	default:
		s.send(newNote(fmt.Sprintf("error: %v: %q", ErrBadMessageKind, msg.Kind)))
	}
}

func (s *Session) handleJoin(name string) {
	s.setName(name)
	s.joined = true
	s.room.Join(s)
	s.room.Broadcast(newNote(fmt.Sprintf("%s joined %q.", name, s.room.name)))
}

func (s *Session) handleChat(text string) {
	s.room.Broadcast(newChat(s.Name(), text))
}

// handleNameChange announces under the old name, then renames.
func (s *Session) handleNameChange(newName string) {
	s.room.Broadcast(newNote(fmt.Sprintf("%s is now %q.", s.Name(), newName)))
	s.setName(newName)
}

func (s *Session) handlePrivate(pm *Private) {
	if pm == nil {
		pm = &Private{}
	}
	to := pm.To
	if to == "" {
		to = s.Name()
	}
	s.room.SendToOne(to, newChat(s.Name(), privateMarker+pm.Message))
}

func (s *Session) handleMembers() {
	listing := "In room: " + strings.Join(s.room.MemberNames(), ", ")
	s.room.SendToOne(s.Name(), newChat(s.Name(), privateMarker+listing))
}

// handleJoke fetches off the queue goroutine and posts the completion back
// onto it, so the delivery never races other operations on this session.
func (s *Session) handleJoke() {
	go func() {
		joke, err := s.jokes.Fetch(context.Background())
		s.enqueue(func() {
			if err != nil {
				zap.L().Warn("chat.joke_fetch",
					zap.String("session_id", s.id), zap.Error(err))
				s.send(newNote("Could not fetch a joke right now."))
				return
			}
			s.room.SendToOne(s.Name(), newChat(s.Name(), privateMarker+joke))
		})
	}()
}

// send attempts delivery and never fails its caller; a dead transport is
// dealt with by the reader, not here.
func (s *Session) send(v any) {
	if err := s.sendFn(v); err != nil {
		zap.L().Debug("chat.send_failed",
			zap.String("session_id", s.id), zap.Error(err))
	}
}
