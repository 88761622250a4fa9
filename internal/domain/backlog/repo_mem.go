package backlog

import (
	"context"

	"github.com/orbook/orbook/internal/platform/apperr"
	"github.com/orbook/orbook/internal/platform/memstore"
)

// memRepo is the reference in-memory implementation backed by a memstore
// table. Records are stored by value so callers cannot alias the table.
type memRepo struct {
	items *memstore.Table[WaitingListItem]
}

func NewMemRepo() Repository {
	return &memRepo{items: memstore.NewTable[WaitingListItem]()}
}

func (r *memRepo) Create(_ context.Context, w *WaitingListItem) error {
	r.items.Set(w.ID, *w)
	return nil
}

func (r *memRepo) Get(_ context.Context, id string) (*WaitingListItem, error) {
	w, ok := r.items.Get(id)
	if !ok {
		return nil, apperr.NotFound("waiting list item not found")
	}
	return &w, nil
}

func (r *memRepo) Update(_ context.Context, w *WaitingListItem) error {
	if _, ok := r.items.Get(w.ID); !ok {
		return apperr.NotFound("waiting list item not found")
	}
	r.items.Set(w.ID, *w)
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) (bool, error) {
	return r.items.Delete(id), nil
}

func (r *memRepo) List(_ context.Context) ([]*WaitingListItem, error) {
	rows := r.items.Values()
	out := make([]*WaitingListItem, len(rows))
	for i := range rows {
		w := rows[i]
		out[i] = &w
	}
	return out, nil
}
