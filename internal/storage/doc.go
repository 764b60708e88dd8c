// Package storage defines persistence for build session snapshots.
//
// Snapshots are stored whole under a caller-chosen key. Implementations live
// in subpackages (bbolt, redis, sqlite, memory); fallback fans writes out to
// several of them and reads from the first that answers.
//
// # Error Types
//
//   - ErrNotFound: no snapshot is stored under the key.
//   - ErrCorrupt: the stored payload could not be decoded.
package storage
