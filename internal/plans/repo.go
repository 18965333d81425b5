package plans

import "context"

// Repo persists planning history.
type Repo interface {
	Create(ctx context.Context, rec PlanRecord) error
	Get(ctx context.Context, id string) (PlanRecord, error)
	List(ctx context.Context, limit, offset int) ([]PlanRecord, error)
}
