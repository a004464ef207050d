package transfer

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"SafImport/api"
	"SafImport/api/constants"
	"SafImport/internal/agents"
	"SafImport/internal/branch"
	"SafImport/internal/config"
	"SafImport/internal/parser"
	"SafImport/internal/roster"
	"SafImport/internal/staging"
)

var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

// ImportTransfers handles POST /transfer/import. The uploaded partner
// file is detected, parsed, resolved to branches and agents, and parked
// in staging under a fresh session id. Nothing reaches the transfers
// table until a validator approves the session, except for privileged
// users importing with direct=true.
func ImportTransfers(db *sql.DB, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to parse multipart form: "+err.Error())
			return
		}

		userID := strings.TrimSpace(r.FormValue("user_id"))
		if userID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrUserIDRequired)
			return
		}
		defaultBranch := strings.TrimSpace(r.FormValue("branch_code"))
		direct := r.FormValue("direct") == "true"
		if direct && !roster.IsPrivileged(userID) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrAdminOnly)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrNoFileProvided)
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedExtensions[ext] {
			api.RespondWithError(w, http.StatusUnsupportedMediaType, "Unsupported file type: "+ext)
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to read file: "+err.Error())
			return
		}

		doc, err := parser.ReadDocument(data, ext)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		res, err := parser.Parse(doc)
		if err != nil {
			switch {
			case errors.Is(err, parser.ErrSummaryOnly),
				errors.Is(err, parser.ErrUnsupportedFormat),
				errors.Is(err, parser.ErrUnsupportedContent):
				api.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
			default:
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		if len(res.Drafts) == 0 {
			api.RespondWithError(w, http.StatusUnprocessableEntity, "File contains no transactions")
			return
		}
		api.LogInfo("Import %s: %s rows=%d skipped=%d by %s", res.Type, header.Filename, len(res.Drafts), res.Skipped, userID)

		ctx := r.Context()
		rosterRepo := roster.NewRepo(db)
		resolver := branch.NewResolver(rosterRepo, defaultBranch)
		resolver.Resolve(ctx, res.Drafts)

		agentSvc := agents.NewService(pool)
		rows := make([]staging.DraftRow, 0, len(res.Drafts))
		for _, d := range res.Drafts {
			var identityID int64
			label := strings.TrimSpace(d.AgentRaw)
			if label == "" {
				label = d.AgentCode
			}
			if d.AgentCode != "" || label != "" {
				identityID, err = agentSvc.GetOrCreate(ctx, d.Partner, d.AgentCode, d.AgentRaw)
				if err != nil {
					api.RespondWithError(w, http.StatusInternalServerError, "Agent unification failed: "+err.Error())
					return
				}
			} else {
				// Western Union rows carry a site, not a teller.
				label = d.SiteName
			}
			rows = append(rows, staging.DraftRow{TransactionDraft: d, AgentIdentityID: identityID, AgentLabel: label})
		}

		sessionID := uuid.New().String()
		store := staging.NewStore(pool)
		outcome, err := store.StageSession(ctx, sessionID, header.Filename, userID, rows)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		outcome.ErrorCount = res.Errors
		outcome.ErrorSamples = res.RowErrors

		if direct {
			if _, err := store.Approve(ctx, sessionID, userID, "Direct import"); err != nil {
				var conflict *staging.ConflictError
				if errors.As(err, &conflict) {
					api.RespondWithError(w, http.StatusConflict, conflict.Error())
					return
				}
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			outcome.RequiresValidation = false
		}

		go archiveImportFile(header.Filename, sessionID, data)

		api.RespondWithPayload(w, true, "", outcome)
	}
}
