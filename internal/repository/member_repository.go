package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memberColumns = `id, display_name, calendar_identity, color_tag, timezone, is_active, created_at`

type MemberRepository struct {
	*base.Repository
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{Repository: base.NewRepository(pool)}
}

func scanMember(row pgx.Row) (*model.StaffMember, error) {
	var (
		member   model.StaffMember
		identity string
	)
	err := row.Scan(
		&member.ID,
		&member.DisplayName,
		&identity,
		&member.ColorTag,
		&member.Timezone,
		&member.IsActive,
		&member.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	// Нормализуем на границе хранилища, дальше сравниваем только канонические значения
	member.CalendarIdentity = model.NormalizeIdentity(identity)
	return &member, nil
}

func (r *MemberRepository) queryMembers(ctx context.Context, query string, args ...any) ([]*model.StaffMember, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*model.StaffMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// GetByID получает сотрудника по ID, nil если не найден
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*model.StaffMember, error) {
	query := `SELECT ` + memberColumns + ` FROM staff_members WHERE id = $1`

	member, err := scanMember(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member by id: %w", err)
	}
	return member, nil
}

// GetByIdentity получает сотрудника по календарному идентификатору
func (r *MemberRepository) GetByIdentity(ctx context.Context, identity model.MemberIdentity) (*model.StaffMember, error) {
	query := `SELECT ` + memberColumns + ` FROM staff_members WHERE calendar_identity = $1`

	member, err := scanMember(r.QueryRow(ctx, query, identity.String()))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member by identity: %w", err)
	}
	return member, nil
}

// ListActive получает активных сотрудников в порядке отображения
func (r *MemberRepository) ListActive(ctx context.Context) ([]*model.StaffMember, error) {
	query := `SELECT ` + memberColumns + ` FROM staff_members WHERE is_active ORDER BY display_name, id`

	members, err := r.queryMembers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active members: %w", err)
	}
	return members, nil
}

// ListAll получает всех сотрудников, включая неактивных
func (r *MemberRepository) ListAll(ctx context.Context) ([]*model.StaffMember, error) {
	query := `SELECT ` + memberColumns + ` FROM staff_members ORDER BY display_name, id`

	members, err := r.queryMembers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// Upsert создаёт или обновляет сотрудника
func (r *MemberRepository) Upsert(ctx context.Context, member *model.StaffMember) error {
	query := `
		INSERT INTO staff_members (id, display_name, calendar_identity, color_tag, timezone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			calendar_identity = EXCLUDED.calendar_identity,
			color_tag = EXCLUDED.color_tag,
			timezone = EXCLUDED.timezone,
			is_active = EXCLUDED.is_active
		RETURNING created_at
	`

	err := r.QueryRow(
		ctx, query,
		member.ID,
		member.DisplayName,
		member.CalendarIdentity.String(),
		member.ColorTag,
		member.Timezone,
		member.IsActive,
	).Scan(&member.CreatedAt)

	if base.IsUniqueViolation(err) {
		return fmt.Errorf("calendar identity %s belongs to another member: %w", member.CalendarIdentity, err)
	}
	if err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return nil
}

// ApplyActivation в одной транзакции включает и выключает сотрудников
// и проставляет таймзону включённым
func (r *MemberRepository) ApplyActivation(ctx context.Context, activate, deactivate []string, tz string) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		if len(activate) > 0 {
			_, err := tx.Exec(ctx,
				`UPDATE staff_members SET is_active = TRUE, timezone = $2 WHERE id = ANY($1)`,
				activate, tz)
			if err != nil {
				return fmt.Errorf("activate members: %w", err)
			}
		}
		if len(deactivate) > 0 {
			_, err := tx.Exec(ctx,
				`UPDATE staff_members SET is_active = FALSE WHERE id = ANY($1)`,
				deactivate)
			if err != nil {
				return fmt.Errorf("deactivate members: %w", err)
			}
		}
		return nil
	})
}
