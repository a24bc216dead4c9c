package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"esanspool/internal/domain/entity"
	"esanspool/internal/domain/repository"
	"esanspool/internal/infra/persistence/model"
)

// demandRepository implements repository.DemandRepository on Firestore.
// A nil tx means the repository operates outside a transaction.
type demandRepository struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

// NewDemandRepository creates a standalone demand repository.
func NewDemandRepository(client *firestore.Client) repository.DemandRepository {
	return &demandRepository{client: client}
}

func (r *demandRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(demandsCollection)
}

// FindByID retrieves a single demand by its document id.
func (r *demandRepository) FindByID(ctx context.Context, id string) (*entity.Demand, error) {
	snap, err := getDoc(ctx, r.tx, r.collection().Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrDemandNotFound
		}

		return nil, errors.Wrap(err, "get demand document")
	}

	return demandFromSnapshot(snap)
}

// List retrieves the full ledger ordered by creation time.
func (r *demandRepository) List(ctx context.Context) ([]*entity.Demand, error) {
	query := r.collection().OrderBy("createdAt", firestore.Asc)

	return r.queryDemands(ctx, query)
}

// FindByUserID retrieves all demands created by one user.
func (r *demandRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Demand, error) {
	query := r.collection().Where("userId", "==", userID)

	return r.queryDemands(ctx, query)
}

// FindByEssenceID retrieves all demands referencing one essence.
func (r *demandRepository) FindByEssenceID(ctx context.Context, essenceID string) ([]*entity.Demand, error) {
	query := r.collection().Where("essenceId", "==", essenceID)

	return r.queryDemands(ctx, query)
}

// Create persists a new demand, generating the id and timestamp when absent.
func (r *demandRepository) Create(ctx context.Context, demand *entity.Demand) error {
	if demand.ID == "" {
		demand.ID = uuid.NewString()
	}
	if demand.CreatedAt.IsZero() {
		demand.CreatedAt = time.Now().UTC()
	}

	ref := r.collection().Doc(demand.ID)
	if err := setDoc(ctx, r.tx, ref, model.DemandDocFromEntity(demand)); err != nil {
		return errors.Wrap(err, "create demand document")
	}

	return nil
}

// Delete removes a demand record.
func (r *demandRepository) Delete(ctx context.Context, id string) error {
	if err := deleteDoc(ctx, r.tx, r.collection().Doc(id)); err != nil {
		return errors.Wrap(err, "delete demand document")
	}

	return nil
}

// Watch emits the full live ledger on every change until ctx is done.
func (r *demandRepository) Watch(ctx context.Context) (<-chan []*entity.Demand, error) {
	if r.tx != nil {
		return nil, errors.New("watch is not available inside a transaction")
	}

	snapshots := r.collection().OrderBy("createdAt", firestore.Asc).Snapshots(ctx)
	ch := make(chan []*entity.Demand, 1)

	go func() {
		defer close(ch)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				return
			}

			demands := make([]*entity.Demand, 0, len(docs))
			for _, doc := range docs {
				demand, err := demandFromSnapshot(doc)
				if err != nil {
					continue
				}
				demands = append(demands, demand)
			}

			select {
			case ch <- demands:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func (r *demandRepository) queryDemands(ctx context.Context, query firestore.Query) ([]*entity.Demand, error) {
	iter := runQuery(ctx, r.tx, query)
	defer iter.Stop()

	snaps, err := iter.GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "query demands")
	}

	demands := make([]*entity.Demand, 0, len(snaps))
	for _, snap := range snaps {
		demand, err := demandFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		demands = append(demands, demand)
	}

	return demands, nil
}

func demandFromSnapshot(snap *firestore.DocumentSnapshot) (*entity.Demand, error) {
	var doc model.DemandDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrap(err, "decode demand document")
	}

	return doc.ToEntity(snap.Ref.ID), nil
}
