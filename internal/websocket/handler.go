package websocket

import (
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/choreboard/internal/auth"
)

// Handler upgrades authenticated requests and subscribes them to their
// family's feed. Callers without a family yet are refused.
func Handler(hub *Hub, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := auth.CallerFrom(r.Context())
		if !caller.Authenticated() || caller.FamilyID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns:     originPatterns,
			InsecureSkipVerify: len(originPatterns) == 0,
		})
		if err != nil {
			hub.logger.Warn("websocket accept", "error", err, "user_id", caller.UserID)
			return
		}
		defer conn.CloseNow()

		NewClient(hub, conn, caller.FamilyID, caller.UserID).Run(r.Context())
	}
}
