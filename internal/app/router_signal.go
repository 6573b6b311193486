package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/watchsync/server/internal/domain"
)

// RelaySignal is pure store-and-forward of peer-negotiation envelopes,
// addressed by target connection identifier. The payload is opaque; there
// is no room-membership check. It reports whether the envelope reached a
// live target; callers must treat false as a silent drop, not an error.
func (r *Router) RelaySignal(from domain.ConnID, kind string, to domain.ConnID, payload json.RawMessage) bool {
	target, ok := r.Conns.Get(to)
	if !ok {
		log.Debug().Str("module", "app.router").Str("to", string(to)).Str("kind", kind).Msg("signal target gone, dropped")
		return false
	}
	env := struct {
		Type    string          `json:"type"`
		From    domain.ConnID   `json:"from"`
		Payload json.RawMessage `json:"payload"`
	}{
		Type:    kind,
		From:    from,
		Payload: payload,
	}
	b, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Msg("signal marshal")
		return false
	}
	if err := target.TrySend(b); err != nil {
		log.Debug().Err(err).Str("module", "app.router").Str("to", string(to)).Msg("signal send dropped")
		return false
	}
	return true
}
