package ports

import (
	"context"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

// ActivityRecorder accepts audit entries without blocking the caller.
type ActivityRecorder interface {
	Record(activity domain.Activity)
}

// ActivityRepository persists audit entries.
type ActivityRepository interface {
	InsertActivity(ctx context.Context, activity *domain.Activity) error
}

// NopRecorder discards every activity.
type NopRecorder struct{}

func (NopRecorder) Record(domain.Activity) {}
