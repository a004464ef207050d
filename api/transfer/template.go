package transfer

import (
	"database/sql"
	"net/http"

	"SafImport/api"
	"SafImport/api/constants"
	"SafImport/internal/roster"
)

// GetBranches handles GET /transfer/branches, listing the branch
// reference table for the import form.
func GetBranches(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		branches, err := roster.NewRepo(db).Branches(r.Context())
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", branches)
	}
}

// Sample rows for the manual import template. Same column order as the
// RIA detail layout so hand-built files go through the same parser,
// which also means no header row: the first cell must be a date.
const manualTemplate = "28/04/2025,29/04/2025,REF0000000001,A01,JEAN DUPONT,ALI SAID,1,,,\"49 200,00 KMF\"\n" +
	"28/04/2025,29/04/2025,REF0000000002,A01,MARIE CLAIRE,FATIMA ABDOU,2,,,\"12 500,00 KMF\"\n"

// DownloadTemplate handles GET /transfer/template.
func DownloadTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", constants.ContentTypeCSV)
		w.Header().Set("Content-Disposition", `attachment; filename="modele_import_transferts.csv"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(manualTemplate))
	}
}
