package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const slotColumns = `
	id, request_group_id, requester_name, requester_email, title, description,
	requested_start_time, priority_level, status, assigned_member_id,
	final_start_time, final_end_time, external_event_id, meeting_link,
	rejection_reason, rejected_by, created_at, updated_at
`

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(pool)}
}

func scanSlot(row pgx.Row) (*model.BookingSlot, error) {
	var slot model.BookingSlot
	err := row.Scan(
		&slot.ID,
		&slot.RequestGroupID,
		&slot.RequesterName,
		&slot.RequesterEmail,
		&slot.Title,
		&slot.Description,
		&slot.RequestedStartTime,
		&slot.PriorityLevel,
		&slot.Status,
		&slot.AssignedMemberID,
		&slot.FinalStartTime,
		&slot.FinalEndTime,
		&slot.ExternalEventID,
		&slot.MeetingLink,
		&slot.RejectionReason,
		&slot.RejectedBy,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepository) querySlots(ctx context.Context, query string, args ...any) ([]*model.BookingSlot, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*model.BookingSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// GetByID получает слот по ID, nil если не найден
func (r *SlotRepository) GetByID(ctx context.Context, id string) (*model.BookingSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM booking_slots WHERE id = $1`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// GetByGroup получает слоты, у которых id или request_group_id совпадает с groupOrSlotID
func (r *SlotRepository) GetByGroup(ctx context.Context, groupOrSlotID string) ([]*model.BookingSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM booking_slots
		WHERE id = $1 OR request_group_id = $1
		ORDER BY priority_level NULLS LAST, requested_start_time
	`

	slots, err := r.querySlots(ctx, query, groupOrSlotID)
	if err != nil {
		return nil, fmt.Errorf("get slots by group: %w", err)
	}
	return slots, nil
}

// Upsert создаёт слот или полностью перезаписывает существующий
func (r *SlotRepository) Upsert(ctx context.Context, slot *model.BookingSlot) error {
	query := `
		INSERT INTO booking_slots (
			id, request_group_id, requester_name, requester_email, title, description,
			requested_start_time, priority_level, status, assigned_member_id,
			final_start_time, final_end_time, external_event_id, meeting_link,
			rejection_reason, rejected_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			request_group_id = EXCLUDED.request_group_id,
			requester_name = EXCLUDED.requester_name,
			requester_email = EXCLUDED.requester_email,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			requested_start_time = EXCLUDED.requested_start_time,
			priority_level = EXCLUDED.priority_level,
			status = EXCLUDED.status,
			assigned_member_id = EXCLUDED.assigned_member_id,
			final_start_time = EXCLUDED.final_start_time,
			final_end_time = EXCLUDED.final_end_time,
			external_event_id = EXCLUDED.external_event_id,
			meeting_link = EXCLUDED.meeting_link,
			rejection_reason = EXCLUDED.rejection_reason,
			rejected_by = EXCLUDED.rejected_by,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.ID,
		slot.RequestGroupID,
		slot.RequesterName,
		slot.RequesterEmail,
		slot.Title,
		slot.Description,
		slot.RequestedStartTime,
		slot.PriorityLevel,
		slot.Status,
		slot.AssignedMemberID,
		slot.FinalStartTime,
		slot.FinalEndTime,
		slot.ExternalEventID,
		slot.MeetingLink,
		slot.RejectionReason,
		slot.RejectedBy,
	).Scan(&slot.CreatedAt, &slot.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}

	return nil
}

// ListOpenGroupSlots получает все слоты групп, в которых есть хотя бы один requested слот
func (r *SlotRepository) ListOpenGroupSlots(ctx context.Context) ([]*model.BookingSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM booking_slots
		WHERE request_group_id IN (
			SELECT DISTINCT request_group_id FROM booking_slots WHERE status = 'requested'
		)
		ORDER BY request_group_id, priority_level NULLS LAST, requested_start_time
	`

	slots, err := r.querySlots(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list open group slots: %w", err)
	}
	return slots, nil
}

// ListScheduledEndedBefore получает назначенные встречи, закончившиеся до before
func (r *SlotRepository) ListScheduledEndedBefore(ctx context.Context, before time.Time) ([]*model.BookingSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM booking_slots
		WHERE status = 'scheduled' AND final_end_time < $1
		ORDER BY final_end_time
	`

	slots, err := r.querySlots(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("list ended slots: %w", err)
	}
	return slots, nil
}
