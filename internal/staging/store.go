package staging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"SafImport/internal/config"
)

// approvalLockKey serializes approvals; serial numbers are drawn under
// this advisory lock so two sessions never overlap.
const approvalLockKey = 874211

// Store owns the staging table and the promotion of staged rows into
// the authoritative transfers table.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ConflictError reports references that already exist in the
// authoritative table at approval time.
type ConflictError struct {
	References []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("approval conflicts with existing transfers: %s", strings.Join(e.References, ", "))
}

// ErrNothingPending: the session has no rows left to act on.
var ErrNothingPending = errors.New("session has no pending rows")

// StageSession parks parsed drafts under one session id, splitting out
// duplicates against the authoritative table, earlier staged rows and
// the file itself. Nothing touches the transfers table here.
func (s *Store) StageSession(ctx context.Context, sessionID, fileName, operatorID string, rows []DraftRow) (*ImportOutcome, error) {
	existing, err := s.existingKeys(ctx, rows)
	if err != nil {
		return nil, err
	}
	accepted, duplicates := planStaging(rows, existing)

	now := time.Now()
	copyRows := make([][]interface{}, 0, len(rows))
	appendRows := func(set []DraftRow, status string) {
		for _, r := range set {
			copyRows = append(copyRows, []interface{}{
				sessionID, r.SequenceNumber, r.ReferenceCode, r.Partner,
				r.Amount, r.Commission, r.Tax, r.OperationType, r.OperationDate,
				r.BranchCode, r.AgentIdentityID, r.AgentLabel,
				r.SenderName, r.BeneficiaryName,
				status, fileName, operatorID, now,
			})
		}
	}
	appendRows(accepted, StatusPending)
	appendRows(duplicates, StatusDuplicate)

	if len(copyRows) > 0 {
		_, err = s.pool.CopyFrom(ctx,
			pgx.Identifier{"transfer_staging"},
			[]string{
				"session_id", "sequence_number", "reference_code", "partner",
				"amount", "commission", "tax", "operation_type", "operation_date",
				"branch_code", "agent_identity_id", "agent_label",
				"sender_name", "beneficiary_name",
				"status", "file_name", "imported_by", "imported_at",
			},
			pgx.CopyFromRows(copyRows),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to stage rows: %w", err)
		}
	}

	return &ImportOutcome{
		ImportSessionID:    sessionID,
		AcceptedCount:      len(accepted),
		DuplicateCount:     len(duplicates),
		TotalAmountInFile:  totalAmount(rows),
		RequiresValidation: true,
		Branches:           breakdown(accepted),
	}, nil
}

// existingKeys fetches the duplicate keys already present for the refs
// appearing in this file, from both the authoritative table and staged
// rows that are still live. Refs go over in batches.
func (s *Store) existingKeys(ctx context.Context, rows []DraftRow) (map[dupKey]struct{}, error) {
	keys := make(map[dupKey]struct{})
	refSet := make(map[string]struct{}, len(rows))
	refs := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, ok := refSet[r.ReferenceCode]; !ok {
			refSet[r.ReferenceCode] = struct{}{}
			refs = append(refs, r.ReferenceCode)
		}
	}

	queries := []string{
		`SELECT reference_code, partner, operation_date FROM transfers WHERE reference_code = ANY($1)`,
		`SELECT reference_code, partner, operation_date FROM transfer_staging
		 WHERE reference_code = ANY($1) AND status IN ('PENDING', 'APPROVED')`,
	}
	for start := 0; start < len(refs); start += config.StagingBatchSize {
		end := start + config.StagingBatchSize
		if end > len(refs) {
			end = len(refs)
		}
		batch := refs[start:end]
		for _, q := range queries {
			dbRows, err := s.pool.Query(ctx, q, batch)
			if err != nil {
				return nil, fmt.Errorf("duplicate key lookup failed: %w", err)
			}
			for dbRows.Next() {
				var ref, partner string
				var opDate time.Time
				if err := dbRows.Scan(&ref, &partner, &opDate); err != nil {
					dbRows.Close()
					return nil, err
				}
				keys[dupKey{ref: ref, partner: partner, day: opDate.Format("2006-01-02")}] = struct{}{}
			}
			if err := dbRows.Err(); err != nil {
				dbRows.Close()
				return nil, err
			}
			dbRows.Close()
		}
	}
	return keys, nil
}

// ApprovalResult reports a promoted session.
type ApprovalResult struct {
	ApprovedCount int   `json:"approved_count"`
	FirstSerial   int64 `json:"first_serial"`
	LastSerial    int64 `json:"last_serial"`
}

// Approve promotes every pending row of a session into the transfers
// table in one transaction, assigns authoritative serial numbers
// continuing from the current maximum in the order the rows were
// staged, then marks the staged rows
// approved. A reference collision rolls the whole session back and
// comes back as *ConflictError.
func (s *Store) Approve(ctx context.Context, sessionID, actorID, comment string) (*ApprovalResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, approvalLockKey); err != nil {
		return nil, fmt.Errorf("failed to take approval lock: %w", err)
	}

	var pending int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM transfer_staging WHERE session_id = $1 AND status = 'PENDING'`,
		sessionID,
	).Scan(&pending); err != nil {
		return nil, err
	}
	if pending == 0 {
		return nil, ErrNothingPending
	}

	var maxSerial int64
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(serial_number), 0) FROM transfers`,
	).Scan(&maxSerial); err != nil {
		return nil, err
	}

	pendingRows, err := tx.Query(ctx, `
		SELECT sequence_number, reference_code, partner,
		       amount, commission, tax, operation_type, operation_date,
		       branch_code, agent_identity_id
		FROM transfer_staging
		WHERE session_id = $1 AND status = 'PENDING'
		ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	var promoted [][]interface{}
	for pendingRows.Next() {
		vals, err := pendingRows.Values()
		if err != nil {
			pendingRows.Close()
			return nil, err
		}
		promoted = append(promoted, vals)
	}
	if err := pendingRows.Err(); err != nil {
		pendingRows.Close()
		return nil, err
	}
	pendingRows.Close()

	serials := assignSerials(maxSerial, len(promoted))
	now := time.Now()
	for i := range promoted {
		promoted[i] = append([]interface{}{serials[i]}, promoted[i]...)
		promoted[i] = append(promoted[i], actorID, now)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"transfers"},
		[]string{
			"serial_number", "sequence_number", "reference_code", "partner",
			"amount", "commission", "tax", "operation_type", "operation_date",
			"branch_code", "agent_identity_id", "created_by", "created_at",
		},
		pgx.CopyFromRows(promoted),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			tx.Rollback(ctx)
			refs, cerr := s.collidingRefs(ctx, sessionID)
			if cerr != nil {
				return nil, cerr
			}
			return nil, &ConflictError{References: refs}
		}
		return nil, fmt.Errorf("failed to promote session: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE transfer_staging
		SET status = 'APPROVED', validated_by = $2, validated_at = NOW(), validation_comment = $3
		WHERE session_id = $1 AND status = 'PENDING'`,
		sessionID, actorID, comment,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}
	return &ApprovalResult{
		ApprovedCount: pending,
		FirstSerial:   maxSerial + 1,
		LastSerial:    maxSerial + int64(pending),
	}, nil
}

// collidingRefs lists the session rows whose key landed in transfers
// between staging and approval.
func (s *Store) collidingRefs(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT st.reference_code
		FROM transfer_staging st
		JOIN transfers t
		  ON t.reference_code = st.reference_code
		 AND t.partner = st.partner
		 AND t.operation_date::date = st.operation_date::date
		WHERE st.session_id = $1 AND st.status = 'PENDING'`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Reject closes a session without touching the transfers table.
// Pending and duplicate rows both move to REJECTED.
func (s *Store) Reject(ctx context.Context, sessionID, actorID, comment string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE transfer_staging
		SET status = 'REJECTED', validated_by = $2, validated_at = NOW(), validation_comment = $3
		WHERE session_id = $1 AND status IN ('PENDING', 'DUPLICATE')`,
		sessionID, actorID, comment,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reject session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrNothingPending
	}
	return tag.RowsAffected(), nil
}

// PendingSessions lists sessions that still have rows awaiting a
// decision, newest first.
func (s *Store) PendingSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, file_name, MAX(partner), imported_by, MIN(imported_at),
		       COUNT(*) FILTER (WHERE status = 'PENDING'),
		       COUNT(*) FILTER (WHERE status = 'DUPLICATE'),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'PENDING'), 0)
		FROM transfer_staging
		GROUP BY session_id, file_name, imported_by
		HAVING COUNT(*) FILTER (WHERE status = 'PENDING') > 0
		ORDER BY MIN(imported_at) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		if err := rows.Scan(&sum.SessionID, &sum.FileName, &sum.Partner, &sum.ImportedBy, &sum.ImportedAt,
			&sum.PendingCount, &sum.DuplicateCount, &sum.TotalAmount); err != nil {
			return nil, err
		}
		sum.Status = StatusPending
		out = append(out, sum)
	}
	return out, rows.Err()
}

// SessionRows returns a capped sample of one session's staged rows.
func (s *Store) SessionRows(ctx context.Context, sessionID string) ([]StagedRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, sequence_number, reference_code, partner,
		       amount, commission, tax, operation_type, operation_date,
		       branch_code, agent_identity_id, agent_label,
		       COALESCE(sender_name, ''), COALESCE(beneficiary_name, ''),
		       status, file_name, imported_by, imported_at
		FROM transfer_staging
		WHERE session_id = $1
		ORDER BY operation_date, id
		LIMIT $2`,
		sessionID, config.SessionSampleLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load session rows: %w", err)
	}
	defer rows.Close()
	return scanStagedRows(rows)
}

// DuplicateRows surfaces every live row of a session whose key exists
// authoritatively, side by side with the existing row. This covers both
// rows flagged at staging time and pending rows whose key appeared in
// transfers afterwards.
func (s *Store) DuplicateRows(ctx context.Context, sessionID string) ([]DuplicateRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT st.id, st.session_id, st.sequence_number, st.reference_code, st.partner,
		       st.amount, st.commission, st.tax, st.operation_type, st.operation_date,
		       st.branch_code, st.agent_identity_id, st.agent_label,
		       COALESCE(st.sender_name, ''), COALESCE(st.beneficiary_name, ''),
		       st.status, st.file_name, st.imported_by, st.imported_at,
		       t.serial_number, t.amount, t.operation_date, t.branch_code, t.created_at
		FROM transfer_staging st
		JOIN transfers t
		  ON t.reference_code = st.reference_code
		 AND t.partner = st.partner
		 AND t.operation_date::date = st.operation_date::date
		WHERE st.session_id = $1 AND st.status IN ('PENDING', 'DUPLICATE')
		ORDER BY st.operation_date, st.id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load duplicate rows: %w", err)
	}
	defer rows.Close()

	var out []DuplicateRow
	for rows.Next() {
		var d DuplicateRow
		if err := rows.Scan(&d.ID, &d.SessionID, &d.SequenceNumber, &d.ReferenceCode, &d.Partner,
			&d.Amount, &d.Commission, &d.Tax, &d.OperationType, &d.OperationDate,
			&d.BranchCode, &d.AgentIdentityID, &d.AgentLabel,
			&d.SenderName, &d.BeneficiaryName,
			&d.Status, &d.FileName, &d.ImportedBy, &d.ImportedAt,
			&d.ExistingSerial, &d.ExistingAmount, &d.ExistingDate, &d.ExistingBranchCode, &d.ExistingImportedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// HistoryFilter narrows the session history listing. Zero values mean
// no constraint.
type HistoryFilter struct {
	Status string
	From   time.Time
	To     time.Time
}

// History lists resolved and unresolved sessions with their final
// status, newest first.
func (s *Store) History(ctx context.Context, f HistoryFilter) ([]SessionSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, file_name, MAX(partner), imported_by, MIN(imported_at),
		       COUNT(*) FILTER (WHERE status = 'PENDING'),
		       COUNT(*) FILTER (WHERE status = 'DUPLICATE'),
		       COALESCE(SUM(amount), 0),
		       CASE
		         WHEN COUNT(*) FILTER (WHERE status = 'PENDING') > 0 THEN 'PENDING'
		         WHEN COUNT(*) FILTER (WHERE status = 'APPROVED') > 0 THEN 'APPROVED'
		         ELSE 'REJECTED'
		       END AS session_status
		FROM transfer_staging
		WHERE (NULLIF($1, '')::timestamptz IS NULL OR imported_at >= NULLIF($1, '')::timestamptz)
		  AND (NULLIF($2, '')::timestamptz IS NULL OR imported_at < NULLIF($2, '')::timestamptz)
		GROUP BY session_id, file_name, imported_by
		ORDER BY MIN(imported_at) DESC`,
		timeOrEmpty(f.From), timeOrEmpty(f.To),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		if err := rows.Scan(&sum.SessionID, &sum.FileName, &sum.Partner, &sum.ImportedBy, &sum.ImportedAt,
			&sum.PendingCount, &sum.DuplicateCount, &sum.TotalAmount, &sum.Status); err != nil {
			return nil, err
		}
		if f.Status != "" && sum.Status != f.Status {
			continue
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func timeOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// PurgeResolved deletes staged rows of resolved sessions older than
// the retention window. Duplicate-flagged rows never get a validated_at
// of their own, so they are swept with their session once no pending
// row remains. Returns the number of rows removed.
func (s *Store) PurgeResolved(ctx context.Context, retentionDays int) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM transfer_staging
		WHERE (status IN ('APPROVED', 'REJECTED')
		       AND validated_at < NOW() - ($1 || ' days')::interval)
		   OR (status = 'DUPLICATE' AND session_id IN (
		        SELECT session_id FROM transfer_staging
		        GROUP BY session_id
		        HAVING COUNT(*) FILTER (WHERE status = 'PENDING') = 0
		           AND MAX(validated_at) < NOW() - ($1 || ' days')::interval))`,
		fmt.Sprint(retentionDays),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge staging table: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanStagedRows(rows pgx.Rows) ([]StagedRow, error) {
	var out []StagedRow
	for rows.Next() {
		var r StagedRow
		if err := rows.Scan(&r.ID, &r.SessionID, &r.SequenceNumber, &r.ReferenceCode, &r.Partner,
			&r.Amount, &r.Commission, &r.Tax, &r.OperationType, &r.OperationDate,
			&r.BranchCode, &r.AgentIdentityID, &r.AgentLabel,
			&r.SenderName, &r.BeneficiaryName,
			&r.Status, &r.FileName, &r.ImportedBy, &r.ImportedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
