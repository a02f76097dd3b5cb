package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/justsurfingit/jobchat/internal/chat"
)

const defaultFirestoreCollection = "jobs"

// FirestoreStore writes each completed posting as one document.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
	Collection      string
}

func NewFirestoreStore(ctx context.Context, cfg FirestoreConfig) (*FirestoreStore, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, errors.New("firestore project id is required")
	}

	var opts []option.ClientOption
	if file := strings.TrimSpace(cfg.CredentialsFile); file != "" {
		opts = append(opts, option.WithCredentialsFile(file))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	collection := strings.TrimSpace(cfg.Collection)
	if collection == "" {
		collection = defaultFirestoreCollection
	}
	return &FirestoreStore{client: client, collection: collection}, nil
}

func (s *FirestoreStore) Save(ctx context.Context, fields chat.FieldSet) (string, error) {
	if !fields.Complete() {
		return "", fmt.Errorf("%w: missing %v", errIncompletePosting, fields.Missing())
	}

	ref, _, err := s.client.Collection(s.collection).Add(ctx, firestoreDocument(fields))
	if err != nil {
		return "", fmt.Errorf("add firestore document: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// firestoreDocument keys the values by field identifier and lets the
// server stamp createdAt.
func firestoreDocument(fields chat.FieldSet) map[string]any {
	doc := make(map[string]any, len(chat.Fields)+1)
	for _, f := range chat.Fields {
		doc[string(f)] = fields[f]
	}
	doc["createdAt"] = firestore.ServerTimestamp
	return doc
}
