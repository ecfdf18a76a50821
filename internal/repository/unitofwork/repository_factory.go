package unitofwork

import "context"

// RepositoryFactory creates a fresh unit of work per request so that
// transactional state never leaks between turns.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
