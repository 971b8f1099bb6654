package httpx

import (
	"net/http"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/ws"
)

// handleBoardWS upgrades the connection and streams board events for a team
// the actor belongs to.
func (r *Router) handleBoardWS(w http.ResponseWriter, req *http.Request) {
	actor, ok := actorFromContext(req.Context())
	if !ok {
		r.writeFailure(w, "ws_board", apperr.Unauthenticated())
		return
	}
	teamID := req.URL.Query().Get("team_id")
	if teamID == "" {
		r.writeFailure(w, "ws_board", apperr.BusinessRule(http.StatusBadRequest, "team_id query parameter required"))
		return
	}
	if _, err := r.team.Get(req.Context(), actor.ID, teamID); err != nil {
		r.writeFailure(w, "ws_board", err)
		return
	}
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	client := ws.NewClient(conn, r.logger, actor.ID)
	r.hub.Register(teamID, client)
	go func() {
		defer func() {
			r.hub.Unregister(teamID, client)
			client.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
