package blob

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type S3Provider struct {
	api       *s3.S3
	bucket    string
	publicURL string
}

func NewS3Provider(sess *session.Session, bucket, publicURL string) *S3Provider {
	return &S3Provider{api: s3.New(sess), bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *S3Provider) Put(key, contentType string, body io.Reader) (string, error) {
	// PutObject wants a ReadSeeker; uploads are small documents, so buffering
	// in memory is fine.
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.api.PutObject(input); err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *S3Provider) Delete(key string) error {
	_, err := s.api.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
