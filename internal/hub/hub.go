package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/engine"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/lobby"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/metrics"
)

type HubMsg interface{ isHubMsg() }

type CreateLobby struct {
	Code    string
	Planner *engine.Planner
	Reply   chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type EnsureLobby struct {
	Code    string
	Planner *engine.Planner // only used if creation happens
	Reply   chan *lobby.Lobby
}

type RemoveLobby struct {
	Code string
}

type CountLobbies struct {
	Reply chan int
}

type ShutdownHub struct{}

// Hub maps session codes to running lobbies.
type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
	metrics *metrics.Metrics
}

func (CreateLobby) isHubMsg()  {}
func (GetLobby) isHubMsg()     {}
func (EnsureLobby) isHubMsg()  {}
func (RemoveLobby) isHubMsg()  {}
func (CountLobbies) isHubMsg() {}
func (ShutdownHub) isHubMsg()  {}

func NewHub(parent context.Context, log *zap.Logger, m *metrics.Metrics) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
		metrics: m,
	}
	go h.loop()
	return h
}

// Send delivers msg unless the hub has already stopped.
func (h *Hub) Send(msg HubMsg) bool {
	if h.ctx.Err() != nil {
		return false
	}
	select {
	case h.inbox <- msg:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

// Get returns the lobby for code, or nil.
func (h *Hub) Get(code string) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	if !h.Send(GetLobby{Code: code, Reply: reply}) {
		return nil
	}
	select {
	case lb := <-reply:
		return lb
	case <-h.ctx.Done():
		return nil
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				if lb := h.lobbies[msg.Code]; lb != nil {
					msg.Reply <- lb
					break
				}
				msg.Reply <- h.start(msg.Code, msg.Planner)

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // May be nil

			case EnsureLobby:
				if lb := h.lobbies[msg.Code]; lb != nil {
					msg.Reply <- lb
					break
				}
				msg.Reply <- h.start(msg.Code, msg.Planner)

			case RemoveLobby:
				if lb, ok := h.lobbies[msg.Code]; ok {
					delete(h.lobbies, msg.Code)
					lb.Send(lobby.Shutdown{})
					h.metrics.SessionClosed()
					h.log.Info("session removed", zap.String("session", msg.Code))
				}

			case CountLobbies:
				msg.Reply <- len(h.lobbies)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) start(code string, p *engine.Planner) *lobby.Lobby {
	if p == nil {
		return nil
	}
	lb := lobby.NewLobby(h.ctx, p,
		lobby.WithCode(code),
		lobby.WithLogger(h.log),
		lobby.WithMetrics(h.metrics),
	)
	h.lobbies[code] = lb
	h.metrics.SessionOpened()
	h.log.Info("session created", zap.String("session", code))
	return lb
}

func (h *Hub) shutdown() {
	for code, lb := range h.lobbies {
		lb.Send(lobby.Shutdown{})
		delete(h.lobbies, code)
		h.metrics.SessionClosed()
	}
	h.cancel()
}
