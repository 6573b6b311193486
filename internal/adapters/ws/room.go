package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/watchsync/server/internal/domain"
)

type roomPayload struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

func (ctl *Controller) handleCreateRoom(id domain.ConnID, c *wsConn, data []byte) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad create-room payload")
		ctl.sendError(c, "bad payload")
		return
	}
	if err := domain.ValidateName(p.Name); err != nil {
		ctl.sendError(c, err.Error())
		return
	}

	// A create without a code gets a server-generated one. No uniqueness
	// retry loop; collisions are rejected downstream.
	var code domain.RoomCode
	if p.RoomCode == "" {
		code = domain.GenerateRoomCode()
	} else {
		var err error
		if code, err = domain.ParseRoomCode(p.RoomCode); err != nil {
			ctl.sendError(c, err.Error())
			return
		}
	}
	ctl.Router.CreateRoom(id, code, p.Name)
}

func (ctl *Controller) handleJoinRoom(id domain.ConnID, c *wsConn, data []byte) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad join-room payload")
		ctl.sendError(c, "bad payload")
		return
	}
	if err := domain.ValidateName(p.Name); err != nil {
		ctl.sendError(c, err.Error())
		return
	}
	code, err := domain.ParseRoomCode(p.RoomCode)
	if err != nil {
		ctl.sendError(c, err.Error())
		return
	}
	ctl.Router.JoinRoom(id, code, p.Name)
}
