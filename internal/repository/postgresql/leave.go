package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveColumns = `
	l.id, l.user_id, l.start_date, l.end_date, l.reason, l.status,
	l.cancel_reason, l.reject_reason, l.approver_id, l.created_at, l.updated_at`

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leaves (
			id, user_id, start_date, end_date, reason, status,
			cancel_reason, reject_reason, approver_id,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		l.ID, l.UserID, l.StartDate, l.EndDate, l.Reason, l.Status,
		l.CancelReason, l.RejectReason, l.ApproverID,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		switch pgErrorCode(err) {
		case pgExclusionViolation:
			return leave.Leave{}, leave.ErrLeaveConflict
		case pgForeignKeyViolation:
			return leave.Leave{}, leave.ErrLeaveOwnerNotFound
		}
		return leave.Leave{}, err
	}

	return l, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + `, u.name, u.email
		FROM leaves l
		JOIN users u ON u.id = l.user_id
		WHERE l.id = $1
	`

	l, err := scanLeaveWithUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, err
	}
	return l, nil
}

// GetByIDForUpdate implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + `
		FROM leaves l
		WHERE l.id = $1
		FOR UPDATE
	`

	l, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, err
	}
	return l, nil
}

// GetByUserID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + `
		FROM leaves l
		WHERE l.user_id = $1
		ORDER BY l.start_date DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectLeaves(rows, scanLeave)
}

// List implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	var whereClauses []string
	var args []interface{}
	argIdx := 1

	if filter.UserID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := `SELECT ` + leaveColumns + `, u.name, u.email
		FROM leaves l
		JOIN users u ON u.id = l.user_id
		` + where + `
		ORDER BY l.start_date DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectLeaves(rows, scanLeaveWithUser)
}

// ListApprovedStartingBetween implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListApprovedStartingBetween(ctx context.Context, from, to time.Time) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + `, u.name, u.email
		FROM leaves l
		JOIN users u ON u.id = l.user_id
		WHERE l.status = $1 AND l.start_date >= $2 AND l.start_date <= $3
		ORDER BY l.start_date ASC
	`

	rows, err := q.Query(ctx, query, leave.StatusApproved, from, to)
	if err != nil {
		return nil, err
	}
	return collectLeaves(rows, scanLeaveWithUser)
}

// ListByUserStartingBetween implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListByUserStartingBetween(ctx context.Context, userID string, from, to time.Time) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + `
		FROM leaves l
		WHERE l.user_id = $1 AND l.start_date >= $2 AND l.start_date <= $3
		ORDER BY l.start_date DESC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	return collectLeaves(rows, scanLeave)
}

// UpdateStatus implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) UpdateStatus(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $1, cancel_reason = $2, reject_reason = $3, approver_id = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, l.Status, l.CancelReason, l.RejectReason, l.ApproverID, l.ID).Scan(&l.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		if pgErrorCode(err) == pgExclusionViolation {
			return leave.Leave{}, leave.ErrLeaveConflict
		}
		return leave.Leave{}, err
	}
	return l, nil
}

// LockOwner implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) LockOwner(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return leave.ErrLeaveOwnerNotFound
		}
		return err
	}
	return nil
}

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.StartDate,
		&l.EndDate,
		&l.Reason,
		&l.Status,
		&l.CancelReason,
		&l.RejectReason,
		&l.ApproverID,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

func scanLeaveWithUser(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	var userName, userEmail string
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.StartDate,
		&l.EndDate,
		&l.Reason,
		&l.Status,
		&l.CancelReason,
		&l.RejectReason,
		&l.ApproverID,
		&l.CreatedAt,
		&l.UpdatedAt,
		&userName,
		&userEmail,
	)
	if err != nil {
		return leave.Leave{}, err
	}
	l.UserName = &userName
	l.UserEmail = &userEmail
	return l, nil
}

func collectLeaves(rows pgx.Rows, scan func(pgx.Row) (leave.Leave, error)) ([]leave.Leave, error) {
	defer rows.Close()

	leaves := []leave.Leave{}
	for rows.Next() {
		l, err := scan(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leaves, nil
}
