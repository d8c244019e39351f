// Package publish writes rendered articles to a publishing backend and
// reports the public URL they are reachable at.
package publish

import (
	"context"
	stderrors "errors"
	"fmt"
	"path"
	"strings"

	"github.com/geo-dev/geo/internal/config"
	"github.com/geo-dev/geo/internal/errors"
)

// ErrInvalidKey is returned for object keys that are empty, absolute or
// climb out of the backend root.
var ErrInvalidKey = stderrors.New("publish: invalid key")

// Document is a rendered article ready for upload.
type Document struct {
	// Key is the slash separated object name, e.g. "42-brand-x.html".
	Key         string
	ContentType string
	Body        []byte
}

// Publisher stores documents.
type Publisher interface {
	// Publish stores doc and returns its public URL.
	Publish(ctx context.Context, doc Document) (string, error)
}

// New builds the publisher selected by cfg.Backend.
func New(cfg config.PublishConfig, env config.Env) (Publisher, error) {
	switch cfg.Backend {
	case "", "disk":
		return NewDiskPublisher(cfg.Dir, cfg.PublicURL)
	case "s3":
		return NewS3Publisher(S3Options{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			PublicURL:       cfg.PublicURL,
			AccessKeyID:     env.AWSAccessKeyID,
			SecretAccessKey: env.AWSSecretAccessKey,
			SessionToken:    env.AWSSessionToken,
		}), nil
	default:
		return nil, errors.New("E122").WithDetail(fmt.Sprintf("unknown publish backend %q", cfg.Backend))
	}
}

// cleanKey validates key and returns it in canonical form.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// joinURL appends key to a public base URL.
func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}

// Slug turns a title into a lowercase ASCII key fragment.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if len(s) > 60 {
		s = strings.TrimSuffix(s[:60], "-")
	}
	return s
}

func publishError(key string, err error) error {
	return errors.New("E310").WithDetail(fmt.Sprintf("%s: %v", key, err)).Wrap(err)
}
