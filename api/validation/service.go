package validation

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"SafImport/internal/serviceiface"
)

type ValidationService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewValidationService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &ValidationService{config: cfg, pool: pool}
}

func (s *ValidationService) Name() string {
	return "validation"
}

func (s *ValidationService) Start() error {
	go StartValidationService(s.pool)
	return nil
}

func (s *ValidationService) Stop() error {
	return nil
}
