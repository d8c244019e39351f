package publish

import (
	"context"
	"os"
	"path/filepath"
)

// DiskPublisher writes documents below a local directory.
type DiskPublisher struct {
	dir       string
	publicURL string
}

// NewDiskPublisher creates the directory if needed. With an empty publicURL
// the returned URL is the absolute file path.
func NewDiskPublisher(dir, publicURL string) (*DiskPublisher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, publishError(dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, publishError(dir, err)
	}
	return &DiskPublisher{dir: abs, publicURL: publicURL}, nil
}

// Publish writes doc through a temp file so readers never see partial output.
func (p *DiskPublisher) Publish(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := cleanKey(doc.Key)
	if err != nil {
		return "", publishError(doc.Key, err)
	}
	dst := filepath.Join(p.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", publishError(key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".publish-*")
	if err != nil {
		return "", publishError(key, err)
	}
	if _, err := tmp.Write(doc.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", publishError(key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", publishError(key, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", publishError(key, err)
	}

	if p.publicURL == "" {
		return dst, nil
	}
	return joinURL(p.publicURL, key), nil
}
