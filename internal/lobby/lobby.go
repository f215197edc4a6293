package lobby

import (
	"context"

	"go.uber.org/zap"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/engine"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/metrics"
)

type Msg interface{ isLobbyMsg() }

// FromClient carries one command. Reply, when set, receives the command's
// error (nil on success); it must be buffered.
type FromClient struct {
	ClientID string
	Cmd      engine.Command
	Reply    chan error
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type Snapshot struct {
	Version int
	State   engine.State
}

type View struct {
	Version    int
	NumClients int
	State      engine.State
}

// Lobby serializes all access to one planner. Every command that changes
// something bumps the version and is broadcast to the joined clients.
type Lobby struct {
	code    string
	inbox   chan Msg
	planner *engine.Planner
	version int
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Lobby)

func WithLogger(log *zap.Logger) Option {
	return func(l *Lobby) {
		if log != nil {
			l.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Lobby) { l.metrics = m }
}

func WithCode(code string) Option {
	return func(l *Lobby) { l.code = code }
}

func NewLobby(parent context.Context, planner *engine.Planner, opts ...Option) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		inbox:   make(chan Msg, 64), // Small buffer
		planner: planner,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.With(zap.String("session", l.code))

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				l.clients[msg.ClientID] = msg.Outbox
				l.metrics.ClientJoined()
				msg.Outbox <- Snapshot{Version: l.version, State: l.planner.State()}

			case Leave:
				if ch, ok := l.clients[msg.ClientID]; ok {
					close(ch)
					delete(l.clients, msg.ClientID)
					l.metrics.ClientLeft()
				}

			case FromClient:
				events, err := l.planner.Apply(msg.Cmd)
				if msg.Reply != nil {
					msg.Reply <- err
				}
				if err != nil {
					l.metrics.CommandRejected(string(msg.Cmd.Type))
					l.log.Debug("command rejected",
						zap.String("client", msg.ClientID),
						zap.String("type", string(msg.Cmd.Type)),
						zap.Error(err))
					break
				}
				l.metrics.CommandApplied(string(msg.Cmd.Type))
				if len(events) == 0 {
					break
				}
				l.version++
				l.broadcast(Snapshot{Version: l.version, State: l.planner.State()})

			case GetState:
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					State:      l.planner.State(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
		l.metrics.ClientLeft()
	}
	l.cancel()
	l.log.Debug("session closed")
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(l.clients, id)
			l.metrics.ClientLeft()
			l.log.Info("dropped slow client", zap.String("client", id))
		}
	}
}

// Send delivers msg unless the lobby has already stopped.
func (l *Lobby) Send(msg Msg) bool {
	if l.ctx.Err() != nil {
		return false
	}
	select {
	case l.inbox <- msg:
		return true
	case <-l.ctx.Done():
		return false
	}
}

func (l *Lobby) Code() string { return l.code }

// Done is closed once the lobby stops accepting messages.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }
