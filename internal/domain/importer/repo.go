package importer

import "context"

// BatchRepository is the import-batch audit table. Batches are append-only.
type BatchRepository interface {
	Create(ctx context.Context, b *ImportBatch) error
	Get(ctx context.Context, id string) (*ImportBatch, error)
	List(ctx context.Context) ([]*ImportBatch, error)
}

// ProfileRepository is the mapping-profile table.
type ProfileRepository interface {
	Create(ctx context.Context, p *MappingProfile) error
	List(ctx context.Context) ([]*MappingProfile, error)
}
