package firestore

import (
	"context"
	"strings"
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

// userRepository implements repository.UserRepository on Firestore.
// A nil tx means the repository operates outside a transaction.
type userRepository struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

// NewUserRepository creates a standalone user repository.
func NewUserRepository(client *firestore.Client) repository.UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

// FindByID retrieves a single user by their unique id.
func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	snap, err := getDoc(ctx, r.tx, r.collection().Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "get user document")
	}

	return userFromSnapshot(snap)
}

// FindByEmail retrieves a single user by their email address. Emails are
// stored lowercased, so the lookup is case-insensitive.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := r.collection().Where("email", "==", strings.ToLower(email)).Limit(1)

	iter := runQuery(ctx, r.tx, query)
	defer iter.Stop()

	snap, err := iter.Next()
	if err != nil {
		if errors.Is(err, iterator.Done) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "query user by email")
	}

	return userFromSnapshot(snap)
}

// List retrieves all registered users ordered by creation time.
func (r *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	query := r.collection().OrderBy("createdAt", firestore.Asc)

	iter := runQuery(ctx, r.tx, query)
	defer iter.Stop()

	snaps, err := iter.GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}

	users := make([]*entity.User, 0, len(snaps))
	for _, snap := range snaps {
		user, err := userFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// Create persists a new user, generating the id and timestamps when absent.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Email = strings.ToLower(user.Email)

	ref := r.collection().Doc(user.ID)
	if err := setDoc(ctx, r.tx, ref, model.UserDocFromEntity(user)); err != nil {
		return errors.Wrap(err, "create user document")
	}

	return nil
}

// Update overwrites an existing user document.
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now().UTC()
	user.Email = strings.ToLower(user.Email)

	ref := r.collection().Doc(user.ID)
	if err := setDoc(ctx, r.tx, ref, model.UserDocFromEntity(user)); err != nil {
		return errors.Wrap(err, "update user document")
	}

	return nil
}

// Delete removes a user record.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	if err := deleteDoc(ctx, r.tx, r.collection().Doc(id)); err != nil {
		return errors.Wrap(err, "delete user document")
	}

	return nil
}

func userFromSnapshot(snap *firestore.DocumentSnapshot) (*entity.User, error) {
	var doc model.UserDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrap(err, "decode user document")
	}

	return doc.ToEntity(snap.Ref.ID), nil
}
