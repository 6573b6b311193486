package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/watchsync/server/internal/domain"
)

type videoPayload struct {
	Type      string `json:"type"`
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

func (p videoPayload) video() domain.Video {
	return domain.Video{
		VideoID:      p.VideoID,
		Title:        p.Title,
		ThumbnailURL: p.Thumbnail,
	}
}

func (ctl *Controller) decodeVideo(c *wsConn, data []byte, requireTitle bool) (videoPayload, bool) {
	var p videoPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad video payload")
		ctl.sendError(c, "bad payload")
		return p, false
	}
	if p.VideoID == "" {
		ctl.sendError(c, "videoId required")
		return p, false
	}
	if requireTitle && p.Title == "" {
		ctl.sendError(c, "title required")
		return p, false
	}
	return p, true
}

func (ctl *Controller) handleAddVideo(id domain.ConnID, c *wsConn, data []byte) {
	p, ok := ctl.decodeVideo(c, data, true)
	if !ok {
		return
	}
	ctl.Router.AddVideo(id, p.video())
}

func (ctl *Controller) handleRemoveVideo(id domain.ConnID, c *wsConn, data []byte) {
	p, ok := ctl.decodeVideo(c, data, false)
	if !ok {
		return
	}
	ctl.Router.RemoveVideo(id, p.VideoID)
}

func (ctl *Controller) handleLoadVideo(id domain.ConnID, c *wsConn, data []byte) {
	p, ok := ctl.decodeVideo(c, data, true)
	if !ok {
		return
	}
	ctl.Router.LoadVideo(id, p.video())
}

func (ctl *Controller) handleVoteVideo(id domain.ConnID, c *wsConn, data []byte) {
	p, ok := ctl.decodeVideo(c, data, false)
	if !ok {
		return
	}
	ctl.Router.VoteVideo(id, p.VideoID)
}

func (ctl *Controller) handleUnvoteVideo(id domain.ConnID, c *wsConn, data []byte) {
	p, ok := ctl.decodeVideo(c, data, false)
	if !ok {
		return
	}
	ctl.Router.UnvoteVideo(id, p.VideoID)
}
