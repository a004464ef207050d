package transfer

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"SafImport/api"
	"SafImport/api/constants"
	"SafImport/internal/agents"
	"SafImport/internal/roster"
)

// UnifyRosterAgents handles POST /transfer/unify-roster. Folds the HR
// roster into the agent identity table so payroll codes resolve before
// any partner file mentions them.
func UnifyRosterAgents(db *sql.DB, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		userID := strings.TrimSpace(r.FormValue("user_id"))
		if userID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrUserIDRequired)
			return
		}
		if !roster.IsPrivileged(userID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrAdminOnly)
			return
		}

		entries, err := roster.NewRepo(db).Entries(r.Context())
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		rosterEntries := make([]agents.RosterEntry, 0, len(entries))
		for _, e := range entries {
			rosterEntries = append(rosterEntries, agents.RosterEntry{Code: e.Code, Name: e.Name})
		}

		n, err := agents.NewService(pool).UnifyRoster(r.Context(), rosterEntries)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.LogInfo("Roster unification by %s: %d agents processed", userID, n)
		api.RespondWithPayload(w, true, "", map[string]interface{}{"agents_unified": n})
	}
}
