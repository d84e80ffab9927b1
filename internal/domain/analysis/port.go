package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	// Create inserts rec once. Failures wrap ErrPersistence.
	Create(ctx context.Context, rec *Record) error
	// GetOwned returns the record only when both id and owner match, ErrNotFound otherwise.
	GetOwned(ctx context.Context, id ID, owner string) (*Record, error)
	ListOwned(ctx context.Context, owner string, page, pageSize int) (PaginatedResult, error)
}

// Generator port for the schema-constrained generation service.
type Generator interface {
	Generate(ctx context.Context, role string, skills []string, projects ...Project) (Result, error)
}

// Archive port (penyimpanan salinan record)
type Archive interface {
	Put(ctx context.Context, key string, doc any) (string, error)
}

// EventPublisher port for downstream notifications.
type EventPublisher interface {
	PublishCreated(ctx context.Context, ev CreatedEvent) error
}
