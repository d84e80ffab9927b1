package failures

import "context"

// Repository persists failures for operators to inspect in the store.
type Repository interface {
	Save(ctx context.Context, f *Failure) error
}
