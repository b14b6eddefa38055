// Package utils provides common utility functions for jobsync.
// It includes helpers for normalizing untyped cell values delivered by the
// collaboration service API.
package utils
