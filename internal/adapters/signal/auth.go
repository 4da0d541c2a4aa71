package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/modaverse/presence/internal/core"
	"github.com/modaverse/presence/internal/domain"
)

func (ctl *Controller) handleAuthenticate(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	type authPayload struct {
		UserID   string  `json:"userId" validate:"required"`
		UserName string  `json:"userName" validate:"required"`
		Avatar   *string `json:"avatar"`
	}
	var p authPayload
	if !decode(ctl, conn, data, &p) {
		return
	}

	id, err := domain.NewIdentity(p.UserID, p.UserName, p.Avatar)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("invalid identity")
		ctl.sendError(conn, "invalid_identity")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("user", p.UserID).Str("name", p.UserName).Msg("authenticate")
	ctl.Hub.Authenticate(sid, id)
}
