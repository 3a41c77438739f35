package scoreboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreEntry is how entries are stored in Firestore.
type firestoreEntry struct {
	Username string    `firestore:"username"`
	Score    int       `firestore:"score"`
	Created  time.Time `firestore:"created"`
}

// FirestoreStore keeps one document per player, keyed by lowercased
// username. Create fails on an existing document, which makes duplicate
// names an atomic rejection.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func OpenFirestore(ctx context.Context, projectID, collection string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &FirestoreStore{client: client, collection: collection}, nil
}

func docID(username string) string {
	// document IDs cannot contain slashes
	return strings.ReplaceAll(strings.ToLower(username), "/", "_")
}

func (s *FirestoreStore) Load(ctx context.Context) ([]Entry, error) {
	itr := s.client.Collection(s.collection).OrderBy("created", firestore.Asc).Documents(ctx)
	defer itr.Stop()

	entries := []Entry{}
	for {
		doc, err := itr.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading scoreboard documents: %w", err)
		}
		var fe firestoreEntry
		if err := doc.DataTo(&fe); err != nil {
			return nil, fmt.Errorf("decoding scoreboard document %s: %w", doc.Ref.ID, err)
		}
		entries = append(entries, Entry{Username: fe.Username, Score: fe.Score})
	}
	Sort(entries)
	return entries, nil
}

func (s *FirestoreStore) Append(ctx context.Context, e Entry) error {
	doc := s.client.Collection(s.collection).Doc(docID(e.Username))
	_, err := doc.Create(ctx, firestoreEntry{Username: e.Username, Score: e.Score, Created: time.Now()})
	if status.Code(err) == codes.AlreadyExists {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("creating scoreboard document for %s: %w", e.Username, err)
	}
	return nil
}

// Replace deletes every document and writes entries in a single batch.
func (s *FirestoreStore) Replace(ctx context.Context, entries []Entry) error {
	refs, err := s.client.Collection(s.collection).DocumentRefs(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("listing scoreboard documents: %w", err)
	}

	keep := make(map[string]bool, len(entries))
	for _, e := range entries {
		keep[docID(e.Username)] = true
	}

	batch := s.client.Batch()
	writes := 0
	for _, ref := range refs {
		if !keep[ref.ID] {
			batch.Delete(ref)
			writes++
		}
	}
	now := time.Now()
	for i, e := range entries {
		// later entries sort after earlier ones on equal scores
		created := now.Add(time.Duration(i) * time.Millisecond)
		batch.Set(s.client.Collection(s.collection).Doc(docID(e.Username)), firestoreEntry{Username: e.Username, Score: e.Score, Created: created})
		writes++
	}
	if writes == 0 {
		return nil
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("committing scoreboard batch: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
