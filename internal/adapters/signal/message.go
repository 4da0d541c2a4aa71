package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/modaverse/presence/internal/core"
	"github.com/modaverse/presence/internal/domain"
)

func (ctl *Controller) handleSendMessage(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	type messagePayload struct {
		CommunityID string `json:"communityId" validate:"required"`
		Content     string `json:"content" validate:"required"`
	}
	var p messagePayload
	if !decode(ctl, conn, data, &p) {
		return
	}
	if !ctl.limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("message rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}

	ctl.Hub.SendMessage(sid, domain.CommunityID(p.CommunityID), p.Content)
}

func (ctl *Controller) handleSharePage(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	type sharePayload struct {
		CommunityID string `json:"communityId" validate:"required"`
		PageURL     string `json:"pageUrl" validate:"required"`
		PageTitle   string `json:"pageTitle" validate:"required"`
	}
	var p sharePayload
	if !decode(ctl, conn, data, &p) {
		return
	}
	if !ctl.limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("share rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}

	ctl.Hub.SharePage(sid, domain.CommunityID(p.CommunityID), p.PageURL, p.PageTitle)
}
