package importer

import (
	"context"

	"github.com/orbook/orbook/internal/platform/apperr"
	"github.com/orbook/orbook/internal/platform/memstore"
)

type memBatchRepo struct {
	batches *memstore.Table[ImportBatch]
}

func NewMemBatchRepo() BatchRepository {
	return &memBatchRepo{batches: memstore.NewTable[ImportBatch]()}
}

func (r *memBatchRepo) Create(_ context.Context, b *ImportBatch) error {
	r.batches.Set(b.ID, *b)
	return nil
}

func (r *memBatchRepo) Get(_ context.Context, id string) (*ImportBatch, error) {
	b, ok := r.batches.Get(id)
	if !ok {
		return nil, apperr.NotFound("import batch not found")
	}
	return &b, nil
}

func (r *memBatchRepo) List(_ context.Context) ([]*ImportBatch, error) {
	rows := r.batches.Values()
	out := make([]*ImportBatch, len(rows))
	for i := range rows {
		b := rows[i]
		out[i] = &b
	}
	return out, nil
}

type memProfileRepo struct {
	profiles *memstore.Table[MappingProfile]
}

func NewMemProfileRepo() ProfileRepository {
	return &memProfileRepo{profiles: memstore.NewTable[MappingProfile]()}
}

func (r *memProfileRepo) Create(_ context.Context, p *MappingProfile) error {
	r.profiles.Set(p.ID, *p)
	return nil
}

func (r *memProfileRepo) List(_ context.Context) ([]*MappingProfile, error) {
	rows := r.profiles.Values()
	out := make([]*MappingProfile, len(rows))
	for i := range rows {
		p := rows[i]
		out[i] = &p
	}
	return out, nil
}
