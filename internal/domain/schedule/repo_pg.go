package schedule

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbook/orbook/internal/platform/apperr"
)

type pgRepo struct{ pool *pgxpool.Pool }

// NewPGRepo returns the durable schedule table backed by postgres. The
// version gate runs as a conditional UPDATE so concurrent writers across
// processes are still serialized by the store.
func NewPGRepo(pool *pgxpool.Pool) Repository { return &pgRepo{pool: pool} }

const entryCols = `id, waiting_list_item_id, room_id, surgeon_id, entry_date, start_time, end_time, status, notes, version, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.WaitingListItemID, &e.RoomID, &e.SurgeonID, &e.Date,
		&e.StartTime, &e.EndTime, &e.Status, &e.Notes, &e.Version, &e.UpdatedAt)
	return &e, err
}

func (r *pgRepo) Create(ctx context.Context, e *Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO schedule_entry (id, waiting_list_item_id, room_id, surgeon_id, entry_date, start_time, end_time, status, notes, version, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		e.ID, e.WaitingListItemID, e.RoomID, e.SurgeonID, e.Date, e.StartTime, e.EndTime, e.Status, e.Notes, e.Version, e.UpdatedAt)
	return err
}

func (r *pgRepo) Get(ctx context.Context, id string) (*Entry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx, `SELECT `+entryCols+` FROM schedule_entry WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("schedule entry not found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *pgRepo) Update(ctx context.Context, e *Entry, prevVersion int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE schedule_entry
		SET waiting_list_item_id=$2, room_id=$3, surgeon_id=$4, entry_date=$5,
			start_time=$6, end_time=$7, status=$8, notes=$9, version=$10, updated_at=$11
		WHERE id = $1 AND version = $12`,
		e.ID, e.WaitingListItemID, e.RoomID, e.SurgeonID, e.Date,
		e.StartTime, e.EndTime, e.Status, e.Notes, e.Version, e.UpdatedAt, prevVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a stale version.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schedule_entry WHERE id = $1)`, e.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("schedule entry not found")
		}
		return apperr.Conflict("Version conflict")
	}
	return nil
}

func (r *pgRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schedule_entry WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgRepo) List(ctx context.Context) ([]*Entry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryCols+` FROM schedule_entry`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
