package store

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/joy-dx/gosession/dto"
	"github.com/redis/go-redis/v9"
)

type recordingSink struct {
	mu      sync.Mutex
	cookies []*http.Cookie
}

func (s *recordingSink) SetCookie(c *http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.cookies = append(s.cookies, &cp)
}

func (s *recordingSink) last() *http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cookies) == 0 {
		return nil
	}
	return s.cookies[len(s.cookies)-1]
}

// fakeS3 keeps objects in memory and reports NoSuchKey like the real service.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
	deletes int
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = data
	f.puts++
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key))
	f.deletes++
	return &s3.DeleteObjectOutput{}, nil
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

type backendFactory struct {
	name string
	make func(t *testing.T) dto.Backend
}

func allBackends() []backendFactory {
	return []backendFactory{
		{name: "memory", make: func(t *testing.T) dto.Backend { return NewMemoryBackend() }},
		{name: "file", make: func(t *testing.T) dto.Backend {
			return NewFileBackend(filepath.Join(t.TempDir(), "nested", "session.json"))
		}},
		{name: "redis", make: func(t *testing.T) dto.Backend {
			_, client := newTestRedis(t)
			return NewRedisBackend(client, "test:")
		}},
		{name: "s3", make: func(t *testing.T) dto.Backend {
			return newS3Backend(newFakeS3(), "wallet", "sessions/alice.json")
		}},
	}
}
