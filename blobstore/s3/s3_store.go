// Package s3 implements blobstore.ObjectStore for AWS S3, with multipart
// uploads for large artifacts and a DynamoDB-backed commit store for
// publishing staged manifests atomically.
package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/errgroup"

	"github.com/veclake/veclake/blobstore"
	"github.com/veclake/veclake/resource"
)

// multipartThreshold is the payload size above which uploads go through the
// multipart upload manager.
const multipartThreshold = 16 * 1024 * 1024

// Client is the subset of the S3 API the store uses.
// *s3.Client satisfies it.
type Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store implements blobstore.ObjectStore on S3.
type Store struct {
	client   Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
	ctrl     *resource.Controller
}

// NewStore creates an S3 object store.
// rootPrefix is prepended to all object names.
// ctrl may be nil to disable fetch scheduling limits.
func NewStore(client Client, bucket, rootPrefix string, ctrl *resource.Controller) *Store {
	return &Store{
		client: client,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = 8 * 1024 * 1024
			u.Concurrency = 5
		}),
		bucket: bucket,
		prefix: rootPrefix,
		ctrl:   ctrl,
	}
}

// NewStoreFromDefaultConfig creates a Store using the ambient AWS
// credential chain (environment, shared config, instance role).
func NewStoreFromDefaultConfig(ctx context.Context, bucket, rootPrefix string, ctrl *resource.Controller) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewStore(s3.NewFromConfig(cfg), bucket, rootPrefix, ctrl), nil
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Put uploads payloads[i] under names[i] and returns stored sizes.
// Payloads above the multipart threshold go through the upload manager.
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

			var err error
			if len(data) >= multipartThreshold {
				_, err = s.uploader.Upload(gctx, &s3.PutObjectInput{
					Bucket: aws.String(s.bucket),
					Key:    aws.String(s.key(name)),
					Body:   bytes.NewReader(data),
				})
			} else {
				_, err = s.client.PutObject(gctx, &s3.PutObjectInput{
					Bucket:        aws.String(s.bucket),
					Key:           aws.String(s.key(name)),
					Body:          bytes.NewReader(data),
					ContentLength: aws.Int64(int64(len(data))),
				})
			}
			if err != nil {
				return err
			}
			mu.Lock()
			sizes[name] = int64(len(data))
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

			obj, err := s.client.GetObject(gctx, &s3.GetObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(s.key(name)),
			})
			if err != nil {
				var nsk *types.NoSuchKey
				if errors.As(err, &nsk) {
					return blobstore.ErrNotFound
				}
				return err
			}
			defer obj.Body.Close()

			data, err := io.ReadAll(obj.Body)
			if err != nil {
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
