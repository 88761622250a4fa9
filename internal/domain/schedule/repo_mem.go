package schedule

import (
	"context"

	"github.com/orbook/orbook/internal/platform/apperr"
	"github.com/orbook/orbook/internal/platform/memstore"
)

type memRepo struct {
	entries *memstore.Table[Entry]
}

// NewMemRepo returns the reference in-memory schedule table.
func NewMemRepo() Repository {
	return &memRepo{entries: memstore.NewTable[Entry]()}
}

func (r *memRepo) Create(_ context.Context, e *Entry) error {
	r.entries.Set(e.ID, *e)
	return nil
}

func (r *memRepo) Get(_ context.Context, id string) (*Entry, error) {
	e, ok := r.entries.Get(id)
	if !ok {
		return nil, apperr.NotFound("schedule entry not found")
	}
	return &e, nil
}

func (r *memRepo) Update(_ context.Context, e *Entry, prevVersion int) error {
	current, ok := r.entries.Get(e.ID)
	if !ok {
		return apperr.NotFound("schedule entry not found")
	}
	if current.Version != prevVersion {
		return apperr.Conflict("Version conflict")
	}
	r.entries.Set(e.ID, *e)
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) (bool, error) {
	return r.entries.Delete(id), nil
}

func (r *memRepo) List(_ context.Context) ([]*Entry, error) {
	rows := r.entries.Values()
	out := make([]*Entry, len(rows))
	for i := range rows {
		e := rows[i]
		out[i] = &e
	}
	return out, nil
}
