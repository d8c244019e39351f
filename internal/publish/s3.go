package publish

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// putObjectAPI is the slice of the S3 client the publisher uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures an S3Publisher.
type S3Options struct {
	Bucket string
	Prefix string
	Region string
	// Endpoint targets an S3-compatible store instead of AWS.
	Endpoint  string
	PathStyle bool
	// PublicURL replaces the default virtual-hosted bucket URL.
	PublicURL string

	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// S3Publisher uploads documents to an S3 bucket.
type S3Publisher struct {
	client    putObjectAPI
	bucket    string
	prefix    string
	publicURL string
}

// NewS3Publisher creates a publisher with static credentials from opts.
// Without credentials requests are sent unsigned.
func NewS3Publisher(opts S3Options) *S3Publisher {
	s3opts := s3.Options{
		Region:       opts.Region,
		UsePathStyle: opts.PathStyle,
	}
	if opts.Endpoint != "" {
		s3opts.BaseEndpoint = aws.String(opts.Endpoint)
	}
	if opts.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     opts.AccessKeyID,
			SecretAccessKey: opts.SecretAccessKey,
			SessionToken:    opts.SessionToken,
			Source:          "GeoEnvironment",
		}
		s3opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	} else {
		s3opts.Credentials = aws.AnonymousCredentials{}
	}

	publicURL := opts.PublicURL
	if publicURL == "" {
		switch {
		case opts.Endpoint != "":
			publicURL = joinURL(opts.Endpoint, opts.Bucket)
		default:
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}
	return newS3Publisher(s3.New(s3opts), opts.Bucket, opts.Prefix, publicURL)
}

func newS3Publisher(client putObjectAPI, bucket, prefix, publicURL string) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, prefix: prefix, publicURL: publicURL}
}

// Publish uploads doc below the configured prefix.
func (p *S3Publisher) Publish(ctx context.Context, doc Document) (string, error) {
	key, err := cleanKey(doc.Key)
	if err != nil {
		return "", publishError(doc.Key, err)
	}
	key = p.prefix + key

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(doc.Body),
		ContentLength: aws.Int64(int64(len(doc.Body))),
		ContentType:   aws.String(contentType),
		Metadata: map[string]string{
			"publish-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", publishError(key, err)
	}
	return joinURL(p.publicURL, key), nil
}
