// Package timeouts defines shared timeout constants used across the builder.
// Each storage backend call is bounded so one stalled backend cannot block
// the others or the in-memory update that preceded it.
package timeouts

import "time"

// StorageRead caps a single snapshot read from one backend.
const StorageRead = 2 * time.Second

// StorageWrite caps a single snapshot write to one backend.
const StorageWrite = 2 * time.Second

// StorageOpen limits how long opening a file-backed store may wait for its
// lock before giving up.
const StorageOpen = time.Second

// RedisDial caps the wait time when dialing a redis peer.
const RedisDial = 2 * time.Second

// Shutdown limits how long telemetry flushing may take on exit.
const Shutdown = 5 * time.Second
