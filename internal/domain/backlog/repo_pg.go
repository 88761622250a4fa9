package backlog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbook/orbook/internal/platform/apperr"
)

type pgRepo struct{ pool *pgxpool.Pool }

// NewPGRepo returns the durable waiting-list table backed by postgres.
func NewPGRepo(pool *pgxpool.Pool) Repository { return &pgRepo{pool: pool} }

const itemCols = `id, patient_name, mrn, case_type_id, procedure_name, est_duration_min, surgeon_id, created_at`

func scanItem(row pgx.Row) (*WaitingListItem, error) {
	var w WaitingListItem
	var surgeonID *string
	err := row.Scan(&w.ID, &w.PatientName, &w.MRN, &w.CaseTypeID, &w.Procedure,
		&w.EstDurationMin, &surgeonID, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	if surgeonID != nil {
		w.SurgeonID = *surgeonID
	}
	return &w, nil
}

func (r *pgRepo) Create(ctx context.Context, w *WaitingListItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO waiting_list_item (id, patient_name, mrn, case_type_id, procedure_name, est_duration_min, surgeon_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),$8)`,
		w.ID, w.PatientName, w.MRN, w.CaseTypeID, w.Procedure, w.EstDurationMin, w.SurgeonID, w.CreatedAt)
	return err
}

func (r *pgRepo) Get(ctx context.Context, id string) (*WaitingListItem, error) {
	w, err := scanItem(r.pool.QueryRow(ctx, `SELECT `+itemCols+` FROM waiting_list_item WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("waiting list item not found")
	}
	return w, err
}

func (r *pgRepo) Update(ctx context.Context, w *WaitingListItem) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE waiting_list_item
		SET patient_name=$2, mrn=$3, case_type_id=$4, procedure_name=$5, est_duration_min=$6, surgeon_id=NULLIF($7,'')
		WHERE id = $1`,
		w.ID, w.PatientName, w.MRN, w.CaseTypeID, w.Procedure, w.EstDurationMin, w.SurgeonID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("waiting list item not found")
	}
	return nil
}

func (r *pgRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM waiting_list_item WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgRepo) List(ctx context.Context) ([]*WaitingListItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemCols+` FROM waiting_list_item`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*WaitingListItem
	for rows.Next() {
		w, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}
