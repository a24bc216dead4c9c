package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
)

// The helpers below route each operation through the bound transaction when
// one is present and fall back to the plain client otherwise.

func getDoc(ctx context.Context, tx *firestore.Transaction, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	if tx != nil {
		return tx.Get(ref)
	}

	return ref.Get(ctx)
}

func runQuery(ctx context.Context, tx *firestore.Transaction, query firestore.Query) *firestore.DocumentIterator {
	if tx != nil {
		return tx.Documents(query)
	}

	return query.Documents(ctx)
}

func setDoc(ctx context.Context, tx *firestore.Transaction, ref *firestore.DocumentRef, data any) error {
	if tx != nil {
		return tx.Set(ref, data)
	}

	_, err := ref.Set(ctx, data)

	return err
}

func updateDoc(ctx context.Context, tx *firestore.Transaction, ref *firestore.DocumentRef, updates []firestore.Update) error {
	if tx != nil {
		return tx.Update(ref, updates)
	}

	_, err := ref.Update(ctx, updates)

	return err
}

func deleteDoc(ctx context.Context, tx *firestore.Transaction, ref *firestore.DocumentRef) error {
	if tx != nil {
		return tx.Delete(ref)
	}

	_, err := ref.Delete(ctx)

	return err
}
