package blob

import (
	"io"

	"profiledash/internal/platform/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
)

// Store persists raw file bytes and hands back a durable public URL. The rest
// of the application only ever sees that URL; no file bytes touch the
// database.
type Store interface {
	Put(key, contentType string, body io.Reader) (url string, err error)
	Delete(key string) error
}

// New selects the backend from config: an S3-compatible bucket (S3, B2,
// MinIO — path-style addressing with static credentials) or a local
// directory for development.
func New(cfg *config.Config) Store {
	if cfg.BlobProvider == "local" {
		return NewLocalProvider(cfg.BlobLocalDir, cfg.BlobPublicURL)
	}

	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.S3KeyID, cfg.S3AppKey, ""),
		Endpoint:         aws.String(cfg.S3Endpoint),
		Region:           aws.String(cfg.S3Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	sess := session.Must(session.NewSession(s3Config))
	return NewS3Provider(sess, cfg.S3Bucket, cfg.BlobPublicURL)
}
