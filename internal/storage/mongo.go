package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const blobCollectionName = "attachment_blobs"

// blobDocument is the persisted shape of one payload.
type blobDocument struct {
	ID   string `bson:"_id"`
	Data string `bson:"data"`
}

// mongoBlobStore keeps encoded payloads inline in a MongoDB collection,
// one document per content id. This is the default backend.
type mongoBlobStore struct {
	collection *mongo.Collection
}

// NewMongoBlobStore creates a BlobStore backed by a MongoDB collection.
func NewMongoBlobStore(db *mongo.Database) BlobStore {
	return &mongoBlobStore{
		collection: db.Collection(blobCollectionName),
	}
}

// Put stores the encoded payload, replacing any existing one with the same id.
func (s *mongoBlobStore) Put(ctx context.Context, contentID string, encoded string) error {
	doc := blobDocument{ID: contentID, Data: encoded}
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": contentID}, doc, opts)
	return err
}

// Get returns the encoded payload for the content id.
func (s *mongoBlobStore) Get(ctx context.Context, contentID string) (string, error) {
	var doc blobDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": contentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrBlobNotFound
		}
		return "", err
	}
	return doc.Data, nil
}

// Delete removes the payload. A missing payload is not an error.
func (s *mongoBlobStore) Delete(ctx context.Context, contentID string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": contentID})
	return err
}
