package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repo reads the HR roster and branch reference tables. These tables
// are owned by the HR system; everything here is read-only.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Branch is one row of the branch reference table.
type Branch struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// HomeBranch returns the branch an agent is posted to, or "" when the
// code is not on the roster.
func (r *Repo) HomeBranch(ctx context.Context, agentCode string) (string, error) {
	var branch string
	err := r.db.QueryRowContext(ctx,
		`SELECT branch_code FROM staff_roster WHERE staff_code = $1`,
		agentCode,
	).Scan(&branch)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("agent %s not on roster", agentCode)
	}
	if err != nil {
		return "", fmt.Errorf("roster lookup failed: %w", err)
	}
	return branch, nil
}

// Branches lists the branch reference table, ordered by code.
func (r *Repo) Branches(ctx context.Context) ([]Branch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT code, name FROM branches ORDER BY code`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var out []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.Code, &b.Name); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Entry is one roster line, fed to agent unification.
type Entry struct {
	Code string
	Name string
}

// Entries dumps the full roster for the unification pass.
func (r *Repo) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT staff_code, full_name FROM staff_roster ORDER BY staff_code`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Code, &e.Name); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// IsPrivileged reports whether a user may validate imports. Head-office
// staff carry the SAF prefix on their user code.
func IsPrivileged(userID string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(userID)), "SAF")
}
