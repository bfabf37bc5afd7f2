package media

import (
	"context"
)

// AWSRepository publishes committed variants to the output bucket and signs
// download URLs for published objects.
type AWSRepository interface {
	PublishFile(ctx context.Context, bucket, key, localPath string) error
	GetPresignedURL(ctx context.Context, bucket, key string) (string, error)
}
