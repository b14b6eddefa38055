package archive

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jobsync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSnapshot_UploadsUnderRunScopedKey(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "jobsync").Return(true, nil)
	client.On("PutObject", mock.Anything, "jobsync",
		mock.MatchedBy(func(name string) bool {
			return strings.HasPrefix(name, "state/") && strings.Contains(name, "run-1")
		}),
		mock.Anything, int64(2), mock.Anything,
	).Return(minio.UploadInfo{}, nil)

	a := New(client, "jobsync", Config{Prefix: "state"}, zap.NewNop())
	location, err := a.Snapshot(context.Background(), "run-1", []byte("{}"))

	require.NoError(t, err)
	assert.Contains(t, location, "jobsync/state/")
	assert.Contains(t, location, "run-1")
	client.AssertExpectations(t)
}

func TestSnapshot_CreatesBucketOnFirstUse(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "jobsync").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "jobsync", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "jobsync", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything,
	).Return(minio.UploadInfo{}, nil)

	a := New(client, "jobsync", Config{Prefix: "state"}, zap.NewNop())
	_, err := a.Snapshot(context.Background(), "run-1", []byte("{}"))

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func objectStream(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, o := range infos {
		ch <- o
	}
	close(ch)
	return ch
}

func TestList_ReturnsSnapshotKeys(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "jobsync").Return(true, nil)
	client.On("ListObjects", mock.Anything, "jobsync",
		mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
			return opts.Prefix == "state/" && opts.Recursive
		}),
	).Return(objectStream(
		minio.ObjectInfo{Key: "state/20260101T000000Z-run-1.json"},
		minio.ObjectInfo{Key: "state/20260102T000000Z-run-2.json"},
	))

	a := New(client, "jobsync", Config{Prefix: "state"}, zap.NewNop())
	keys, err := a.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{
		"state/20260101T000000Z-run-1.json",
		"state/20260102T000000Z-run-2.json",
	}, keys)
}

func TestList_MissingBucketMeansNoSnapshots(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "jobsync").Return(false, nil)

	a := New(client, "jobsync", Config{Prefix: "state"}, zap.NewNop())
	keys, err := a.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, keys)
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestList_ObjectErrorPropagates(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "jobsync").Return(true, nil)
	client.On("ListObjects", mock.Anything, "jobsync", mock.Anything).
		Return(objectStream(minio.ObjectInfo{Err: errors.New("access denied")}))

	a := New(client, "jobsync", Config{Prefix: "state"}, zap.NewNop())
	_, err := a.List(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestSnapshot_UploadFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "jobsync").Return(true, nil)
	client.On("PutObject", mock.Anything, "jobsync", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything,
	).Return(minio.UploadInfo{}, errors.New("disk full"))

	a := New(client, "jobsync", Config{Prefix: "state"}, zap.NewNop())
	_, err := a.Snapshot(context.Background(), "run-1", []byte("{}"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
