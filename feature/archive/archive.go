package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"jobsync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Config holds configuration for the state archive feature.
type Config struct {
	// Enabled turns snapshot archiving on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Prefix is the object key prefix for snapshots.
	Prefix string `mapstructure:"prefix" default:"state"`
}

// Archiver mirrors each saved state blob to object storage, building an
// audit trail of assignment history. Archive failures are reported to the
// caller but must never fail the run.
type Archiver struct {
	client storage.Client
	bucket string
	prefix string
	log    *zap.Logger

	now func() time.Time
}

// New creates an archiver over the given storage client.
func New(client storage.Client, bucket string, cfg Config, log *zap.Logger) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		prefix: cfg.Prefix,
		log:    log,
		now:    time.Now,
	}
}

// Snapshot uploads one state blob under a run-scoped key and returns the
// object location. The bucket is created on first use.
func (a *Archiver) Snapshot(ctx context.Context, runID string, data []byte) (string, error) {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return "", fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		a.log.Info("creating archive bucket", zap.String("bucket", a.bucket))
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("create bucket: %w", err)
		}
	}

	// Timestamp first: lexical object order is chronological.
	objectName := fmt.Sprintf("%s/%s-%s.json",
		a.prefix, a.now().UTC().Format("20060102T150405Z"), runID)

	_, err = a.client.PutObject(ctx, a.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	return a.bucket + "/" + objectName, nil
}

// List returns the object keys of all archived snapshots, oldest first.
// A missing bucket means no snapshots were ever taken.
func (a *Archiver) List(ctx context.Context) ([]string, error) {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		return nil, nil
	}

	var keys []string
	objects := a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    a.prefix + "/",
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("list snapshots: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}
