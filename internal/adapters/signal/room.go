package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/modaverse/presence/internal/core"
	"github.com/modaverse/presence/internal/domain"
)

type roomPayload struct {
	CommunityID string `json:"communityId" validate:"required"`
}

func (ctl *Controller) handleJoin(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	var p roomPayload
	if !decode(ctl, conn, data, &p) {
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("community", p.CommunityID).Msg("join_community")
	ctl.Hub.Join(sid, domain.CommunityID(p.CommunityID))
}

func (ctl *Controller) handleLeave(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	var p roomPayload
	if !decode(ctl, conn, data, &p) {
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("community", p.CommunityID).Msg("leave_community")
	ctl.Hub.Leave(sid, domain.CommunityID(p.CommunityID))
}
