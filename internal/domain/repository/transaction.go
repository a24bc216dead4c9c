package repository

import "context"

// TransactionManager defines the interface for running related reads and
// writes atomically. This lets the usecase layer close the read-modify-write
// races of the demand counter without depending on the Firestore client.
type TransactionManager interface {
	// Execute runs a function within a transaction. If the function returns
	// an error, nothing is committed. All repository operations obtained from
	// the factory share the same transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to one transaction.
type RepositoryFactory interface {
	// EssenceRepo returns an EssenceRepository bound to the current transaction.
	EssenceRepo() EssenceRepository

	// DemandRepo returns a DemandRepository bound to the current transaction.
	DemandRepo() DemandRepository

	// UserRepo returns a UserRepository bound to the current transaction.
	UserRepo() UserRepository
}
