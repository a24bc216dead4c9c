package firestore

import (
	"context"

	"cloud.google.com/go/firestore"

	"esanspool/internal/domain/repository"
)

// firestoreTransactionManager implements the domain's TransactionManager
// interface on Firestore's optimistic transactions. Firestore requires all
// reads of a transaction to happen before its writes; the usecases follow
// that ordering.
type firestoreTransactionManager struct {
	client *firestore.Client
}

// firestoreRepositoryFactory implements the domain's RepositoryFactory
// interface. It holds one *firestore.Transaction and hands out repository
// instances bound to it.
type firestoreRepositoryFactory struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

// EssenceRepo returns an essence repository bound to the transaction.
func (f *firestoreRepositoryFactory) EssenceRepo() repository.EssenceRepository {
	return &essenceRepository{client: f.client, tx: f.tx}
}

// DemandRepo returns a demand repository bound to the transaction.
func (f *firestoreRepositoryFactory) DemandRepo() repository.DemandRepository {
	return &demandRepository{client: f.client, tx: f.tx}
}

// UserRepo returns a user repository bound to the transaction.
func (f *firestoreRepositoryFactory) UserRepo() repository.UserRepository {
	return &userRepository{client: f.client, tx: f.tx}
}

// NewTransactionManager is the constructor for firestoreTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(client *firestore.Client) repository.TransactionManager {
	return &firestoreTransactionManager{client: client}
}

// Execute runs the given function within a single Firestore transaction.
// Firestore retries the function on contention, so fn must be side-effect
// free outside its repository writes.
func (tm *firestoreTransactionManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	return tm.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		factory := &firestoreRepositoryFactory{client: tm.client, tx: tx}

		return fn(factory)
	})
}
