package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const blobPrefix = "blob:"

// BlobStore keeps each blob under its own key with no expiry
type BlobStore struct {
	client *Client
}

// NewBlobStore creates a blob store on the given client
func NewBlobStore(client *Client) *BlobStore {
	return &BlobStore{client: client}
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.rdb.Get(ctx, blobPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.rdb.Set(ctx, blobPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if err := s.client.rdb.Del(ctx, blobPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *BlobStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *BlobStore) Close() error {
	return s.client.Close()
}
