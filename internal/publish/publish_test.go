package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/geo-dev/geo/internal/config"
	geoerrors "github.com/geo-dev/geo/internal/errors"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "a.html", want: "a.html"},
		{key: "2026/10/a.html", want: "2026/10/a.html"},
		{key: "a/./b.html", want: "a/b.html"},
		{key: "", wantErr: true},
		{key: "/etc/passwd", wantErr: true},
		{key: "../secret", wantErr: true},
		{key: "a/../../secret", wantErr: true},
		{key: "a\\b", wantErr: true},
		{key: ".", wantErr: true},
	}
	for _, tc := range tests {
		got, err := cleanKey(tc.key)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("cleanKey(%q) = (%q, %v), wantErr %v", tc.key, got, err, tc.wantErr)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Why Brand X Wins!":    "why-brand-x-wins",
		"  2026: Top 10 Shoes": "2026-top-10-shoes",
		"品牌":                   "",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDiskPublisher(t *testing.T) {
	dir := t.TempDir()
	p, err := NewDiskPublisher(dir, "https://cdn.example.com/articles/")
	if err != nil {
		t.Fatal(err)
	}

	url, err := p.Publish(context.Background(), Document{Key: "2026/1-brand-x.html", Body: []byte("<h1>x</h1>")})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if url != "https://cdn.example.com/articles/2026/1-brand-x.html" {
		t.Errorf("url = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "2026", "1-brand-x.html"))
	if err != nil || string(data) != "<h1>x</h1>" {
		t.Errorf("file = %q, %v", data, err)
	}

	_, err = p.Publish(context.Background(), Document{Key: "../escape.html"})
	if !errors.Is(err, ErrInvalidKey) || geoerrors.Code(err) != "E310" {
		t.Errorf("traversal error = %v", err)
	}
}

func TestDiskPublisherWithoutPublicURL(t *testing.T) {
	dir := t.TempDir()
	p, err := NewDiskPublisher(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	url, err := p.Publish(context.Background(), Document{Key: "a.html", Body: []byte("a")})
	if err != nil {
		t.Fatal(err)
	}
	if url != filepath.Join(p.dir, "a.html") {
		t.Errorf("url = %q", url)
	}
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Publisher(t *testing.T) {
	fake := &fakeS3{}
	p := newS3Publisher(fake, "geo-bucket", "articles/", "https://geo-bucket.s3.us-east-1.amazonaws.com")

	url, err := p.Publish(context.Background(), Document{Key: "7-x.html", ContentType: "text/html; charset=utf-8", Body: []byte("<p>x</p>")})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if url != "https://geo-bucket.s3.us-east-1.amazonaws.com/articles/7-x.html" {
		t.Errorf("url = %q", url)
	}
	if aws.ToString(fake.in.Bucket) != "geo-bucket" || aws.ToString(fake.in.Key) != "articles/7-x.html" {
		t.Errorf("input = %+v", fake.in)
	}
	if aws.ToString(fake.in.ContentType) != "text/html; charset=utf-8" || string(fake.body) != "<p>x</p>" {
		t.Errorf("content = %q %q", aws.ToString(fake.in.ContentType), fake.body)
	}

	fake.err = errors.New("access denied")
	if _, err := p.Publish(context.Background(), Document{Key: "8.html"}); geoerrors.Code(err) != "E310" {
		t.Errorf("error = %v, want E310", err)
	}
}

func TestNew(t *testing.T) {
	cfg := config.Default().Publish
	cfg.Dir = t.TempDir()
	p, err := New(cfg, config.Env{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*DiskPublisher); !ok {
		t.Errorf("New(disk) = %T", p)
	}

	cfg.Backend = "s3"
	cfg.S3.Bucket = "b"
	cfg.S3.Endpoint = "http://127.0.0.1:9000"
	p, err = New(cfg, config.Env{AWSAccessKeyID: "id", AWSSecretAccessKey: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	s3p, ok := p.(*S3Publisher)
	if !ok {
		t.Fatalf("New(s3) = %T", p)
	}
	if s3p.publicURL != "http://127.0.0.1:9000/b" {
		t.Errorf("publicURL = %q", s3p.publicURL)
	}

	cfg.Backend = "ftp"
	if _, err := New(cfg, config.Env{}); geoerrors.Code(err) != "E122" {
		t.Errorf("New(ftp) error = %v", err)
	}
}
