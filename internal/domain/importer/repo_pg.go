package importer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbook/orbook/internal/platform/apperr"
)

type pgBatchRepo struct{ pool *pgxpool.Pool }

func NewPGBatchRepo(pool *pgxpool.Pool) BatchRepository { return &pgBatchRepo{pool: pool} }

const batchCols = `id, file_name, imported_at, mapping_profile_id, counts_created, counts_updated, counts_skipped, errors`

func scanBatch(row pgx.Row) (*ImportBatch, error) {
	var b ImportBatch
	var profileID *string
	err := row.Scan(&b.ID, &b.FileName, &b.ImportedAt, &profileID,
		&b.CountsCreated, &b.CountsUpdated, &b.CountsSkipped, &b.Errors)
	if err != nil {
		return nil, err
	}
	if profileID != nil {
		b.MappingProfileID = *profileID
	}
	return &b, nil
}

func (r *pgBatchRepo) Create(ctx context.Context, b *ImportBatch) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO import_batch (id, file_name, imported_at, mapping_profile_id, counts_created, counts_updated, counts_skipped, errors)
		VALUES ($1,$2,$3,NULLIF($4,''),$5,$6,$7,$8)`,
		b.ID, b.FileName, b.ImportedAt, b.MappingProfileID,
		b.CountsCreated, b.CountsUpdated, b.CountsSkipped, b.Errors)
	return err
}

func (r *pgBatchRepo) Get(ctx context.Context, id string) (*ImportBatch, error) {
	b, err := scanBatch(r.pool.QueryRow(ctx, `SELECT `+batchCols+` FROM import_batch WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("import batch not found")
	}
	return b, err
}

func (r *pgBatchRepo) List(ctx context.Context) ([]*ImportBatch, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+batchCols+` FROM import_batch`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var batches []*ImportBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

type pgProfileRepo struct{ pool *pgxpool.Pool }

func NewPGProfileRepo(pool *pgxpool.Pool) ProfileRepository { return &pgProfileRepo{pool: pool} }

func (r *pgProfileRepo) Create(ctx context.Context, p *MappingProfile) error {
	columns, err := json.Marshal(p.Columns)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO mapping_profile (id, name, columns) VALUES ($1,$2,$3)`,
		p.ID, p.Name, columns)
	return err
}

func (r *pgProfileRepo) List(ctx context.Context) ([]*MappingProfile, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, columns FROM mapping_profile`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var profiles []*MappingProfile
	for rows.Next() {
		var p MappingProfile
		var columns []byte
		if err := rows.Scan(&p.ID, &p.Name, &columns); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(columns, &p.Columns); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}
