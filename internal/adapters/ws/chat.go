package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/watchsync/server/internal/domain"
)

func (ctl *Controller) handleSendMessage(id domain.ConnID, c *wsConn, data []byte) {
	var p struct {
		Type string `json:"type"`
		Body string `json:"body"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad send-message payload")
		ctl.sendError(c, "bad payload")
		return
	}
	if err := domain.ValidateMessageBody(p.Body); err != nil {
		ctl.sendError(c, err.Error())
		return
	}
	ctl.Router.SendMessage(id, p.Body)
}

func (ctl *Controller) handleActivity(id domain.ConnID, c *wsConn, data []byte) {
	var p struct {
		Type     string         `json:"type"`
		Kind     string         `json:"kind"`
		Metadata map[string]any `json:"metadata,omitempty"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad activity payload")
		return
	}
	kind, err := domain.ParseActivityKind(p.Kind)
	if err != nil {
		ctl.sendError(c, err.Error())
		return
	}
	ctl.Router.ReportActivity(id, kind, p.Metadata)
}
