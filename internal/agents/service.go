package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service resolves partner agent labels to canonical agent identities.
// One person shows up under different codes and spellings across the
// MoneyGram, RIA and Western Union exports; every alias converges on a
// single agent_identity row.
type Service struct {
	pool *pgxpool.Pool

	mu          sync.Mutex
	cacheByCode map[string]int64
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{
		pool:        pool,
		cacheByCode: make(map[string]int64),
	}
}

// GetOrCreate returns the identity id for an agent as labeled in a
// partner file, creating the identity and the alias on first sight.
// Lookups go code first, then normalized name; a lost insert race is
// resolved by re-reading.
func (s *Service) GetOrCreate(ctx context.Context, partner, agentCode, agentRaw string) (int64, error) {
	code := strings.TrimSpace(agentCode)
	normalized := NormalizeName(agentRaw)
	if code == "" && normalized == "" {
		return 0, errors.New("agent has neither code nor name")
	}

	cacheKey := partner + "|" + code
	if code != "" {
		s.mu.Lock()
		id, ok := s.cacheByCode[cacheKey]
		s.mu.Unlock()
		if ok {
			return id, nil
		}
	}

	id, err := s.lookup(ctx, partner, code, normalized)
	if err == nil {
		s.remember(cacheKey, code, id)
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	id, err = s.create(ctx, partner, code, agentRaw, normalized)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Another import inserted the same agent first.
			id, err = s.lookup(ctx, partner, code, normalized)
		}
		if err != nil {
			return 0, err
		}
	}
	s.remember(cacheKey, code, id)
	return id, nil
}

func (s *Service) remember(cacheKey, code string, id int64) {
	if code == "" {
		return
	}
	s.mu.Lock()
	s.cacheByCode[cacheKey] = id
	s.mu.Unlock()
}

func (s *Service) lookup(ctx context.Context, partner, code, normalized string) (int64, error) {
	var id int64
	if code != "" {
		err := s.pool.QueryRow(ctx,
			`SELECT identity_id FROM agent_aliases WHERE partner = $1 AND alias_code = $2`,
			partner, code,
		).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("alias lookup failed: %w", err)
		}
	}
	if normalized == "" {
		return 0, pgx.ErrNoRows
	}
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM agent_identities WHERE normalized_name = $1`,
		normalized,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, pgx.ErrNoRows
		}
		return 0, fmt.Errorf("identity lookup failed: %w", err)
	}
	// Identity exists under another partner's label; attach this alias.
	if code != "" {
		if _, aerr := s.pool.Exec(ctx,
			`INSERT INTO agent_aliases (identity_id, partner, alias_code, alias_name)
			 VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			id, partner, code, normalized,
		); aerr != nil {
			return 0, fmt.Errorf("alias attach failed: %w", aerr)
		}
	}
	return id, nil
}

func (s *Service) create(ctx context.Context, partner, code, displayName, normalized string) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	display := strings.TrimSpace(displayName)
	if display == "" {
		display = code
	}
	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO agent_identities (display_name, normalized_name)
		 VALUES ($1, $2) RETURNING id`,
		display, normalized,
	).Scan(&id); err != nil {
		return 0, err
	}
	if code != "" || normalized != "" {
		if _, err := tx.Exec(ctx,
			`INSERT INTO agent_aliases (identity_id, partner, alias_code, alias_name)
			 VALUES ($1, $2, $3, $4)`,
			id, partner, code, normalized,
		); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// UnifyRoster folds the HR roster into the identity table so payroll
// codes resolve without waiting for a partner file to mention them.
// Returns how many identities were created or linked.
func (s *Service) UnifyRoster(ctx context.Context, entries []RosterEntry) (int, error) {
	n := 0
	for _, e := range entries {
		if _, err := s.GetOrCreate(ctx, "ROSTER", e.Code, e.Name); err != nil {
			return n, fmt.Errorf("roster unification stopped at %s: %w", e.Code, err)
		}
		n++
	}
	return n, nil
}

// RosterEntry is one HR roster line fed to UnifyRoster.
type RosterEntry struct {
	Code string
	Name string
}
