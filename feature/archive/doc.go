// Package archive mirrors saved job number state to S3-compatible object
// storage, one timestamped snapshot per run. Snapshots give operators an
// audit trail of assignment history and a recovery point when the state
// sheet is edited by hand.
package archive
