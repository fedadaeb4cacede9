// Package minio implements blobstore.ObjectStore for MinIO and other
// S3-compatible endpoints.
package minio

import (
	"bytes"
	"context"
	"io"
	"path"
	"sync"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"

	"github.com/veclake/veclake/blobstore"
	"github.com/veclake/veclake/resource"
)

// Store implements blobstore.ObjectStore on a MinIO client.
// Requests within one batch fan out concurrently, bounded by the resource
// controller's fetch slots; the batch itself remains one synchronous call.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
	ctrl   *resource.Controller
}

// NewStore creates a MinIO object store.
// rootPrefix is prepended to all object names (e.g. "indexes/").
// ctrl may be nil to disable fetch scheduling limits.
func NewStore(client *minio.Client, bucket, rootPrefix string, ctrl *resource.Controller) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
		ctrl:   ctrl,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Put uploads payloads[i] under names[i] and returns stored sizes.
func (s *Store) Put(ctx context.Context, names []string, payloads [][]byte) (map[string]int64, error) {
	var (
		mu    sync.Mutex
		sizes = make(map[string]int64, len(names))
	)

	g, gctx := errgroup.WithContext(ctx)
	for i := range names {
		name, data := names[i], payloads[i]
		g.Go(func() error {
			if err := s.ctrl.AcquireSlot(gctx); err != nil {
				return err
			}
			defer s.ctrl.ReleaseSlot()

			info, err := s.client.PutObject(gctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
			if err != nil {
				return err
			}
			mu.Lock()
			sizes[name] = info.Size
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sizes, nil
}

// Get downloads the named objects, preserving input order.
func (s *Store) Get(ctx context.Context, names []string, prio resource.Priority) ([][]byte, error) {
	out := make([][]byte, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i := range names {
		idx, name := i, names[i]
		g.Go(func() error {
			if err := s.ctrl.AcquireSlot(gctx); err != nil {
				return err
			}
			defer s.ctrl.ReleaseSlot()

			obj, err := s.client.GetObject(gctx, s.bucket, s.key(name), minio.GetObjectOptions{})
			if err != nil {
				return err
			}
			defer obj.Close()

			data, err := io.ReadAll(obj)
			if err != nil {
				errResp := minio.ToErrorResponse(err)
				if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
					return blobstore.ErrNotFound
				}
				return err
			}
			if err := s.ctrl.WaitIO(gctx, int64(len(data)), prio); err != nil {
				return err
			}
			out[idx] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
