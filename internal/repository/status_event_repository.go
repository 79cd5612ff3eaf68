package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcorp/claims-service/internal/domain"
)

// StatusEventRepository stores the append-only transition history.
// Events are never updated or deleted.
type StatusEventRepository interface {
	Append(ctx context.Context, event *domain.StatusEvent) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.StatusEvent, error)
}

type statusEventRepository struct {
	pool *pgxpool.Pool
}

// NewStatusEventRepository builds repository.
func NewStatusEventRepository(pool *pgxpool.Pool) StatusEventRepository {
	return &statusEventRepository{pool: pool}
}

func (r *statusEventRepository) Append(ctx context.Context, event *domain.StatusEvent) error {
	const query = `
        INSERT INTO status_events (ticket_id, from_status, to_status, note, attachments, actor_id, actor_name)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	attachments := event.Attachments
	if attachments == nil {
		attachments = []domain.StoredAttachment{}
	}
	encoded, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("encode attachments: %w", err)
	}
	return r.pool.QueryRow(ctx, query,
		event.TicketID,
		event.FromStatus,
		event.ToStatus,
		event.Note,
		encoded,
		event.ActorID,
		event.ActorName,
	).Scan(&event.ID, &event.CreatedAt)
}

// ListByTicket returns events in creation order, oldest first.
func (r *statusEventRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.StatusEvent, error) {
	const query = `
        SELECT id, ticket_id, from_status, to_status, note, attachments, actor_id, actor_name, created_at
        FROM status_events WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusEvent
	for rows.Next() {
		var (
			event   domain.StatusEvent
			encoded []byte
		)
		if err := rows.Scan(
			&event.ID,
			&event.TicketID,
			&event.FromStatus,
			&event.ToStatus,
			&event.Note,
			&encoded,
			&event.ActorID,
			&event.ActorName,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(encoded) > 0 {
			if err := json.Unmarshal(encoded, &event.Attachments); err != nil {
				return nil, fmt.Errorf("decode attachments: %w", err)
			}
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
