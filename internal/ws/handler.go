package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/engine"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/hub"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/lobby"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/roster"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/types"
)

// Handler joins a websocket client to the session named by ?code=.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		lb := h.Get(code)
		if lb == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan lobby.Snapshot, 8)
		clientID := uuid.NewString()
		clog := log.With(zap.String("session", code), zap.String("client", clientID))

		if !lb.Send(lobby.Join{ClientID: clientID, Outbox: out}) {
			return
		}
		defer lb.Send(lobby.Leave{ClientID: clientID})
		clog.Debug("client joined")

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				state := snap.State
				writeJSON(writeCtx, conn, types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &state})
			}
			// Lobby closed the outbox: either it stopped or we were too slow.
			_ = conn.Close(websocket.StatusGoingAway, "session closed")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					clog.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "bad json"})
				continue
			}

			cmd, ok := toEngineCommand(cm)
			if !ok {
				writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "unknown type"})
				continue
			}

			reply := make(chan error, 1)
			if !lb.Send(lobby.FromClient{ClientID: clientID, Cmd: cmd, Reply: reply}) {
				return
			}
			select {
			case err := <-reply:
				if err != nil {
					writeJSON(r.Context(), conn, types.ServerMessage{Type: "Error", Error: err.Error()})
				}
			case <-lb.Done():
				return
			}
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

func toEngineCommand(m types.ClientMessage) (engine.Command, bool) {
	cmd := engine.Command{
		Type:          engine.CommandType(m.Type),
		UnitID:        m.UnitID,
		Unit:          m.Unit,
		Units:         m.Units,
		Row:           m.Row,
		Col:           m.Col,
		Row2:          m.Row2,
		Col2:          m.Col2,
		Name:          m.Name,
		Term:          m.Term,
		UnitsText:     m.UnitsText,
		FormationText: m.Formation,
	}
	for i, k := range m.SortKeys {
		if i == len(cmd.SortKeys) {
			break
		}
		cmd.SortKeys[i] = roster.ParseSortKey(k)
	}

	switch cmd.Type {
	case engine.CmdAddUnit, engine.CmdRemoveUnit, engine.CmdUpdateUnit, engine.CmdSetUnits,
		engine.CmdSetSearchTerm, engine.CmdSetSortKeys,
		engine.CmdPlaceUnit, engine.CmdRemoveUnitAt, engine.CmdSwapUnits, engine.CmdRenameFormation,
		engine.CmdUndo, engine.CmdRedo, engine.CmdClearHistory, engine.CmdLoadLink:
		return cmd, true
	default:
		return engine.Command{}, false
	}
}
