// internal/app/system/cloud/cloud.go
package cloud

import (
	"context"
	"fmt"
)

// ObjectStore is the durable blob storage contract the avatar pipeline and
// registration flow depend on. Buckets are region-scoped; every stored
// object is publicly readable at URL(bucket, region, key).
type ObjectStore interface {
	// CreateBucket provisions a bucket in the given region. Creating a
	// bucket that already exists and is owned by us is not an error.
	CreateBucket(ctx context.Context, bucket, region string) error

	// Put stores body under key with the given content type and returns
	// the public URL of the object.
	Put(ctx context.Context, bucket, region, key, contentType string, body []byte) (string, error)

	// Get fetches the object bytes.
	Get(ctx context.Context, bucket, region, key string) ([]byte, error)
}

// URL is the public read location of an object.
func URL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
