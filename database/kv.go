// database/kv.go
package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// KVStore implements the notify package's key-value seam on a Mongo
// collection, so notification logs and dedup keys survive restarts.
type KVStore struct {
	coll *mongo.Collection
}

type kvDoc struct {
	Key   string `bson:"_id"`
	Value []byte `bson:"value"`
}

func NewKVStore() *KVStore {
	return &KVStore{coll: DB().Collection("kvstore")}
}

func (s *KVStore) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc kvDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Printf("kvstore get %s: %v", key, err)
		}
		return nil, false
	}
	return doc.Value, true
}

func (s *KVStore) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key},
		kvDoc{Key: key, Value: value}, options.Replace().SetUpsert(true))
	if err != nil {
		log.Printf("kvstore set %s: %v", key, err)
	}
}

func (s *KVStore) Remove(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		log.Printf("kvstore remove %s: %v", key, err)
	}
}
