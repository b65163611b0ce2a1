package mission

import (
	"context"

	"github.com/nexus-advisory/nexus-intelligence/pkg/types/common"
)

// Repository is the persistence contract for the saved-profile collection.
// The original client kept this collection in browser local storage; the
// service-side store is Postgres-backed but the contract stays whole-record:
// profiles are written and read as complete documents, never partially
// updated.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id common.ID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id common.ID) error
	List(ctx context.Context, page, pageSize int) ([]*Profile, int64, error)
}
