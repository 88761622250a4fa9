package backlog

import "context"

// Repository is the waiting-list table. It stores and retrieves records
// without validating them; all filtering happens in the service.
type Repository interface {
	Create(ctx context.Context, w *WaitingListItem) error
	Get(ctx context.Context, id string) (*WaitingListItem, error)
	Update(ctx context.Context, w *WaitingListItem) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*WaitingListItem, error)
}
