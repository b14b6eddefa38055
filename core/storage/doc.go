// Package storage provides the S3-compatible object storage client used to
// archive job number state snapshots after each run.
//
// The Client interface wraps the subset of minio operations the archive
// needs, so tests can substitute the mock in storage/mocks.
package storage
