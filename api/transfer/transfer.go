package transfer

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

func StartTransferService(db *sql.DB, pool *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.HandleFunc("/transfer/import", ImportTransfers(db, pool))
	mux.HandleFunc("/transfer/branches", GetBranches(db))
	mux.HandleFunc("/transfer/template", DownloadTemplate())
	mux.HandleFunc("/transfer/unify-roster", UnifyRosterAgents(db, pool))

	log.Println("Transfer Service started on :3143")
	err := http.ListenAndServe(":3143", mux)
	if err != nil {
		log.Fatalf("Transfer Service failed: %v", err)
	}
}
