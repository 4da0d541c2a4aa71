package signal

import "github.com/modaverse/presence/internal/core"

func (ctl *Controller) handlePing(conn core.SignalConnection) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}
