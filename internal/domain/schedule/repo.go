package schedule

import "context"

// Repository is the schedule table. Update enforces the version gate
// atomically: it persists e only if the stored version still equals
// prevVersion, otherwise it returns a conflict. This keeps the
// compare-and-swap inside the store, where a durable implementation can do
// it as a conditional write.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	Update(ctx context.Context, e *Entry, prevVersion int) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*Entry, error)
}
