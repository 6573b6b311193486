package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/watchsync/server/internal/domain"
)

// handleSignal forwards offer/answer/ICE envelopes. Payload contents are
// opaque here; only the target address is read.
func (ctl *Controller) handleSignal(id domain.ConnID, c *wsConn, kind string, data []byte) {
	var p struct {
		Type    string          `json:"type"`
		To      string          `json:"to"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad signal payload")
		return
	}
	if p.To == "" {
		ctl.sendError(c, "signal target required")
		return
	}
	ctl.Router.RelaySignal(id, kind, domain.ConnID(p.To), p.Payload)
}
