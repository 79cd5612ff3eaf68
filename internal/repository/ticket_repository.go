package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcorp/claims-service/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	Kind      *domain.TicketKind
	Statuses  []domain.Status
	AccountID *string
	VehicleID *string
	PolicyID  *string
	Limit     int
	Offset    int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (kind, status, account_id, vehicle_id, policy_id, sla_due_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Kind,
		ticket.Status,
		ticket.AccountID,
		ticket.VehicleID,
		ticket.PolicyID,
		ticket.SLADueAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, kind, status, account_id, vehicle_id, policy_id, sla_due_at, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Kind,
		&ticket.Status,
		&ticket.AccountID,
		&ticket.VehicleID,
		&ticket.PolicyID,
		&ticket.SLADueAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateStatus is the final commit point of a transition: it is always
// issued after the status event has been appended.
func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error {
	const query = `UPDATE tickets SET status=$1, updated_at=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status, updatedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, kind, status, account_id, vehicle_id, policy_id, sla_due_at, created_at, updated_at
             FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		clauses = append(clauses, fmt.Sprintf("kind=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		clauses = append(clauses, fmt.Sprintf("account_id=$%d", len(args)))
	}
	if filter.VehicleID != nil {
		args = append(args, *filter.VehicleID)
		clauses = append(clauses, fmt.Sprintf("vehicle_id=$%d", len(args)))
	}
	if filter.PolicyID != nil {
		args = append(args, *filter.PolicyID)
		clauses = append(clauses, fmt.Sprintf("policy_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Kind,
			&ticket.Status,
			&ticket.AccountID,
			&ticket.VehicleID,
			&ticket.PolicyID,
			&ticket.SLADueAt,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
