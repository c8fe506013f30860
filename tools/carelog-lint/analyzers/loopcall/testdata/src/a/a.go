package a

import "context"

type Document map[string]any

type EntryStore interface {
	GetDocument(ctx context.Context, id string) (Document, error)
	ListDocuments(ctx context.Context, babyID string) ([]Document, error)
	Revision(ctx context.Context, babyID string) (int64, error)
}

func bad(ctx context.Context, ids []string, store EntryStore) {
	for _, id := range ids {
		store.GetDocument(ctx, id) // want "potential N\\+1: GetDocument called inside loop"
	}
	for i := 0; i < 3; i++ {
		store.Revision(ctx, "baby-1") // want "potential N\\+1: Revision called inside loop"
	}
}

func nested(ctx context.Context, groups [][]string, store EntryStore) {
	for _, ids := range groups {
		for _, id := range ids {
			store.GetDocument(ctx, id) // want "potential N\\+1: GetDocument called inside loop"
		}
	}
}

func good(ctx context.Context, babies []string, store EntryStore) {
	// ListDocuments is the batch query
	for _, baby := range babies {
		store.ListDocuments(ctx, baby)
	}
}
