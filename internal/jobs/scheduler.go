package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"SafImport/internal/config"
	"SafImport/internal/logger"
	"SafImport/internal/serviceiface"
	"SafImport/internal/staging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("[INFO] Starting cron service...")

	schedule := config.DefaultSweepSchedule
	retentionDays := config.RetentionDays
	tz := config.DefaultTimeZone
	if s.config != nil {
		if v, ok := s.config["sweep_schedule"].(string); ok && v != "" {
			schedule = v
		}
		if v, ok := s.config["retention_days"].(int); ok && v > 0 {
			retentionDays = v
		}
		if v, ok := s.config["timezone"].(string); ok && v != "" {
			tz = v
		}
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}

	store := staging.NewStore(s.db)
	s.cron = cron.New(cron.WithLocation(loc))
	_, err = s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		n, err := store.PurgeResolved(ctx, retentionDays)
		if err != nil {
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Staging retention sweep failed: %v", err))
			}
			return
		}
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Staging retention sweep removed %d rows", n))
		}
	})
	if err != nil {
		return fmt.Errorf("unable to schedule staging retention sweep: %v", err)
	}

	s.cron.Start()
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Cron service started with staging retention sweep")
	}
	log.Println("Cron service started — staging retention sweep scheduled")
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Println("Cron service stopped.")
	return nil
}
