package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"esanspool/internal/domain/entity"
	"esanspool/internal/domain/repository"
	"esanspool/internal/infra/persistence/model"
)

// essenceRepository implements repository.EssenceRepository on Firestore.
// A nil tx means the repository operates outside a transaction.
type essenceRepository struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

// NewEssenceRepository creates a standalone essence repository.
func NewEssenceRepository(client *firestore.Client) repository.EssenceRepository {
	return &essenceRepository{client: client}
}

func (r *essenceRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(essencesCollection)
}

// FindByID retrieves a single essence by its document id.
func (r *essenceRepository) FindByID(ctx context.Context, id string) (*entity.Essence, error) {
	snap, err := getDoc(ctx, r.tx, r.collection().Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrEssenceNotFound
		}

		return nil, errors.Wrap(err, "get essence document")
	}

	return essenceFromSnapshot(snap)
}

// FindByCode retrieves a single essence by its catalog code.
func (r *essenceRepository) FindByCode(ctx context.Context, code string) (*entity.Essence, error) {
	query := r.collection().Where("code", "==", code).Limit(1)

	iter := runQuery(ctx, r.tx, query)
	defer iter.Stop()

	snap, err := iter.Next()
	if err != nil {
		if errors.Is(err, iterator.Done) {
			return nil, repository.ErrEssenceNotFound
		}

		return nil, errors.Wrap(err, "query essence by code")
	}

	return essenceFromSnapshot(snap)
}

// List retrieves the full catalog ordered by creation time.
func (r *essenceRepository) List(ctx context.Context) ([]*entity.Essence, error) {
	query := r.collection().OrderBy("createdAt", firestore.Asc)

	iter := runQuery(ctx, r.tx, query)
	defer iter.Stop()

	snaps, err := iter.GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "list essences")
	}

	essences := make([]*entity.Essence, 0, len(snaps))
	for _, snap := range snaps {
		essence, err := essenceFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		essences = append(essences, essence)
	}

	return essences, nil
}

// Create persists a new essence, generating the id and timestamps when absent.
func (r *essenceRepository) Create(ctx context.Context, essence *entity.Essence) error {
	if essence.ID == "" {
		essence.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if essence.CreatedAt.IsZero() {
		essence.CreatedAt = now
	}
	essence.UpdatedAt = now
	if essence.TargetAmount <= 0 {
		essence.TargetAmount = entity.DefaultTargetAmount
	}

	ref := r.collection().Doc(essence.ID)
	if err := setDoc(ctx, r.tx, ref, model.EssenceDocFromEntity(essence)); err != nil {
		return errors.Wrap(err, "create essence document")
	}

	return nil
}

// Update overwrites an existing essence document.
func (r *essenceRepository) Update(ctx context.Context, essence *entity.Essence) error {
	essence.UpdatedAt = time.Now().UTC()

	ref := r.collection().Doc(essence.ID)
	if err := setDoc(ctx, r.tx, ref, model.EssenceDocFromEntity(essence)); err != nil {
		return errors.Wrap(err, "update essence document")
	}

	return nil
}

// AddTotalDemand atomically adjusts the running demand counter by delta.
func (r *essenceRepository) AddTotalDemand(ctx context.Context, id string, delta int64) error {
	updates := []firestore.Update{
		{Path: "totalDemand", Value: firestore.Increment(delta)},
		{Path: "updatedAt", Value: time.Now().UTC()},
	}

	ref := r.collection().Doc(id)
	if err := updateDoc(ctx, r.tx, ref, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return repository.ErrEssenceNotFound
		}

		return errors.Wrap(err, "increment essence demand")
	}

	return nil
}

// Delete removes the essence document. Referencing demands are the
// usecase's concern.
func (r *essenceRepository) Delete(ctx context.Context, id string) error {
	if err := deleteDoc(ctx, r.tx, r.collection().Doc(id)); err != nil {
		return errors.Wrap(err, "delete essence document")
	}

	return nil
}

// Watch emits the full live catalog on every change until ctx is done.
func (r *essenceRepository) Watch(ctx context.Context) (<-chan []*entity.Essence, error) {
	if r.tx != nil {
		return nil, errors.New("watch is not available inside a transaction")
	}

	snapshots := r.collection().OrderBy("createdAt", firestore.Asc).Snapshots(ctx)
	ch := make(chan []*entity.Essence, 1)

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

			essences := make([]*entity.Essence, 0, len(docs))
			for _, doc := range docs {
				essence, err := essenceFromSnapshot(doc)
				if err != nil {
					continue
				}
				essences = append(essences, essence)
			}

			select {
			case ch <- essences:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func essenceFromSnapshot(snap *firestore.DocumentSnapshot) (*entity.Essence, error) {
	var doc model.EssenceDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrap(err, "decode essence document")
	}

	return doc.ToEntity(snap.Ref.ID), nil
}
