package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"foxie/internal/agent"
)

const (
	agentWSWriteWait = 10 * time.Second
	agentWSPongWait  = 60 * time.Second
	agentWSPingEvery = (agentWSPongWait * 9) / 10
)

var agentWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type agentWSOutbound struct {
	Type       string            `json:"type"`
	RunID      string            `json:"run_id,omitempty"`
	Transition *agent.Transition `json:"transition,omitempty"`
	Result     *RunAgentResponse `json:"result,omitempty"`
	Code       string            `json:"code,omitempty"`
	Message    string            `json:"message,omitempty"`
}

// HandleAgentWS runs one agent per connection. The client sends a single
// RunAgentRequest; the server answers with "transition" frames, then one
// "result" or "error" frame, and closes.
func (h *ScaffoldHandler) HandleAgentWS(w http.ResponseWriter, r *http.Request) {
	conn, err := agentWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(agentWSPongWait)); err != nil {
		return
	}
	var in RunAgentRequest
	if err := conn.ReadJSON(&in); err != nil {
		h.log.Debug("agent ws start message", zap.Error(err))
		writeAgentWS(conn, agentWSOutbound{Type: "error", Code: "invalid_argument", Message: "invalid start message: " + err.Error()})
		return
	}
	_ = conn.SetReadDeadline(time.Now().Add(agentWSPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(agentWSPongWait))
	})
	// A read error means the client went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	writeCh := make(chan agentWSOutbound, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(agentWSPingEvery)
		defer ticker.Stop()
		for {
			select {
			case out, ok := <-writeCh:
				if !ok {
					return
				}
				if err := writeAgentWS(conn, out); err != nil {
					cancel()
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(agentWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	emitter := agent.EmitterFunc(func(t agent.Transition) {
		pushAgentWS(writeCh, agentWSOutbound{Type: "transition", Transition: &t})
	})
	res, err := h.runAgent(ctx, in, emitter)
	final := agentWSOutbound{Type: "result", Result: res}
	if err != nil {
		final = agentWSOutbound{Type: "error", Code: wsCode(err), Message: err.Error()}
	} else {
		final.RunID = res.RunID
	}
	select {
	case writeCh <- final:
	case <-writerDone:
	}
	close(writeCh)
	<-writerDone

	_ = conn.SetWriteDeadline(time.Now().Add(agentWSWriteWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func writeAgentWS(conn *websocket.Conn, out agentWSOutbound) error {
	if err := conn.SetWriteDeadline(time.Now().Add(agentWSWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(out)
}

// pushAgentWS drops the oldest queued frame when the writer falls behind.
func pushAgentWS(writeCh chan agentWSOutbound, out agentWSOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
