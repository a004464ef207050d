package transfer

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"SafImport/internal/serviceiface"
)

type TransferService struct {
	config map[string]interface{}
	db     *sql.DB
	pool   *pgxpool.Pool
}

func NewTransferService(cfg map[string]interface{}, db *sql.DB, pool *pgxpool.Pool) serviceiface.Service {
	return &TransferService{config: cfg, db: db, pool: pool}
}

func (s *TransferService) Name() string {
	return "transfer"
}

func (s *TransferService) Start() error {
	go StartTransferService(s.db, s.pool)
	return nil
}

func (s *TransferService) Stop() error {
	return nil
}
