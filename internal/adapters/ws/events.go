package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/watchsync/server/internal/domain"
)

// handleEvent decodes the envelope discriminator and routes. Validation
// happens here, before anything reaches the store.
func (ctl *Controller) handleEvent(id domain.ConnID, c *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad json")
		return
	}

	switch env.Type {
	case "create-room":
		ctl.handleCreateRoom(id, c, data)
	case "join-room":
		ctl.handleJoinRoom(id, c, data)
	case "send-message":
		ctl.handleSendMessage(id, c, data)
	case "typing-start":
		ctl.Router.TypingStart(id)
	case "typing-stop":
		ctl.Router.TypingStop(id)
	case "add-video":
		ctl.handleAddVideo(id, c, data)
	case "remove-video":
		ctl.handleRemoveVideo(id, c, data)
	case "load-video":
		ctl.handleLoadVideo(id, c, data)
	case "vote-video":
		ctl.handleVoteVideo(id, c, data)
	case "unvote-video":
		ctl.handleUnvoteVideo(id, c, data)
	case "playback-state":
		ctl.Router.RelayPlayback(id, data)
	case "activity":
		ctl.handleActivity(id, c, data)
	case "signal-offer", "signal-answer", "signal-ice":
		ctl.handleSignal(id, c, env.Type, data)
	case "ping":
		ctl.sendJSON(c, map[string]string{"type": "pong"})
	default:
		log.Warn().Str("module", "ws").Str("type", env.Type).Msg("unknown event")
	}
}
