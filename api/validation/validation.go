package validation

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"SafImport/api"
	"SafImport/api/constants"
	"SafImport/internal/config"
	"SafImport/internal/logger"
	"SafImport/internal/roster"
	"SafImport/internal/staging"
)

func StartValidationService(pool *pgxpool.Pool) {
	router := mux.NewRouter()
	router.HandleFunc("/validation/imports/pending", GetPendingImports(pool)).Methods("GET")
	router.HandleFunc("/validation/imports/pending/{sessionId}", GetSessionRows(pool)).Methods("GET")
	router.HandleFunc("/validation/imports/duplicates/{sessionId}", GetDuplicateRows(pool)).Methods("GET")
	router.HandleFunc("/validation/imports/validate/{sessionId}", ValidateImport(pool)).Methods("POST")
	router.HandleFunc("/validation/imports/reject/{sessionId}", RejectImport(pool)).Methods("POST")
	router.HandleFunc("/validation/imports/history", GetImportHistory(pool)).Methods("GET")
	router.HandleFunc("/validation/imports/cleanup", CleanupStaging(pool)).Methods("DELETE")

	log.Println("Validation Service started on :4143")
	err := http.ListenAndServe(":4143", router)
	if err != nil {
		log.Fatalf("Validation Service failed: %v", err)
	}
}

// requirePrivileged pulls the acting user out of the query string and
// rejects non head-office users. Returns "" after writing the response
// when the caller should bail out.
func requirePrivileged(w http.ResponseWriter, userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrUserIDRequired)
		return ""
	}
	if !roster.IsPrivileged(userID) {
		api.RespondWithError(w, http.StatusForbidden, constants.ErrAdminOnly)
		return ""
	}
	return userID
}

// GetPendingImports handles GET /validation/imports/pending.
func GetPendingImports(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requirePrivileged(w, r.URL.Query().Get("user_id")) == "" {
			return
		}
		sessions, err := staging.NewStore(pool).PendingSessions(r.Context())
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", sessions)
	}
}

// GetSessionRows handles GET /validation/imports/pending/{sessionId},
// a capped sample of the session's staged rows.
func GetSessionRows(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requirePrivileged(w, r.URL.Query().Get("user_id")) == "" {
			return
		}
		sessionID := mux.Vars(r)["sessionId"]
		if sessionID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrSessionIDRequired)
			return
		}
		rows, err := staging.NewStore(pool).SessionRows(r.Context(), sessionID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", rows)
	}
}

// GetDuplicateRows handles GET /validation/imports/duplicates/{sessionId}.
func GetDuplicateRows(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requirePrivileged(w, r.URL.Query().Get("user_id")) == "" {
			return
		}
		sessionID := mux.Vars(r)["sessionId"]
		if sessionID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrSessionIDRequired)
			return
		}
		rows, err := staging.NewStore(pool).DuplicateRows(r.Context(), sessionID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", rows)
	}
}

type decisionRequest struct {
	UserID  string `json:"user_id"`
	Comment string `json:"comment"`
}

// ValidateImport handles POST /validation/imports/validate/{sessionId}.
// Promotes every pending row of the session into the transfers table.
func ValidateImport(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req decisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		userID := requirePrivileged(w, req.UserID)
		if userID == "" {
			return
		}
		sessionID := mux.Vars(r)["sessionId"]

		result, err := staging.NewStore(pool).Approve(r.Context(), sessionID, userID, req.Comment)
		if err != nil {
			var conflict *staging.ConflictError
			switch {
			case errors.As(err, &conflict):
				api.RespondWithError(w, http.StatusConflict, conflict.Error())
			case errors.Is(err, staging.ErrNothingPending):
				api.RespondWithError(w, http.StatusNotFound, err.Error())
			default:
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("Import session " + sessionID + " approved by " + userID)
		}
		api.RespondWithPayload(w, true, "", result)
	}
}

// RejectImport handles POST /validation/imports/reject/{sessionId}.
// Closes the session without touching the transfers table.
func RejectImport(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req decisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		userID := requirePrivileged(w, req.UserID)
		if userID == "" {
			return
		}
		sessionID := mux.Vars(r)["sessionId"]

		n, err := staging.NewStore(pool).Reject(r.Context(), sessionID, userID, req.Comment)
		if err != nil {
			if errors.Is(err, staging.ErrNothingPending) {
				api.RespondWithError(w, http.StatusNotFound, err.Error())
				return
			}
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("Import session " + sessionID + " rejected by " + userID)
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{"rejected_count": n})
	}
}

// GetImportHistory handles GET /validation/imports/history with
// optional status, from and to filters.
func GetImportHistory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requirePrivileged(w, r.URL.Query().Get("user_id")) == "" {
			return
		}
		q := r.URL.Query()
		filter := staging.HistoryFilter{Status: strings.ToUpper(strings.TrimSpace(q.Get("status")))}
		if v := q.Get("from"); v != "" {
			t, err := time.Parse(constants.DateFormat, v)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, "Invalid from date: "+v)
				return
			}
			filter.From = t
		}
		if v := q.Get("to"); v != "" {
			t, err := time.Parse(constants.DateFormat, v)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, "Invalid to date: "+v)
				return
			}
			filter.To = t
		}

		sessions, err := staging.NewStore(pool).History(r.Context(), filter)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", sessions)
	}
}

// CleanupStaging handles DELETE /validation/imports/cleanup, removing
// resolved staged rows past the retention window.
func CleanupStaging(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := requirePrivileged(w, r.URL.Query().Get("user_id"))
		if userID == "" {
			return
		}
		n, err := staging.NewStore(pool).PurgeResolved(r.Context(), config.RetentionDays)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("Staging cleanup by " + userID)
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{"deleted_count": n})
	}
}
