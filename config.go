package extsort

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/outofcore/extsort/tempfile"
)

// Config holds configuration settings for extsort
type Config struct {
	RunSize        int         // number of items buffered in memory per run before it is sorted and spilled
	NumWorkers     int         // number of goroutines used by the parallel in-memory sort
	Parallel       bool        // sort each run's buffer in parallel at seal time
	Compression    bool        // zstd-compress spilled runs on their way to disk
	FileBufferSize int         // file IO buffer size for temporary storage
	TempDir        string      // empty for the OS default, ex: /tmp
	Logger         *zap.Logger // nil for no logging

	// TempStorage overrides where spilled runs are stored. nil selects the
	// disk-backed default honoring TempDir, FileBufferSize and Compression.
	// Return tempfile.Mem to sort entirely in memory, e.g. for benchmarks.
	TempStorage func() (tempfile.TempWriter, error)
}

// DefaultConfig returns the default configuration options used if none provided
func DefaultConfig() *Config {
	return &Config{
		RunSize:        500000,
		NumWorkers:     runtime.GOMAXPROCS(0),
		FileBufferSize: 1 << 16, // 64k
		TempDir:        "",
	}
}

// mergeConfig takes a provided config and replaces any values not set with the defaults
func mergeConfig(c *Config) *Config {
	d := DefaultConfig()
	if c == nil {
		c = d
	}
	if c.RunSize < 2 {
		c.RunSize = d.RunSize
	}
	if c.NumWorkers < 1 {
		c.NumWorkers = d.NumWorkers
	}
	if c.FileBufferSize <= 0 {
		c.FileBufferSize = d.FileBufferSize
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	// skipping TempDir as the empty string selects the OS default
	return c
}

// newTempWriter opens the configured temporary storage for one sort.
func (c *Config) newTempWriter() (tempfile.TempWriter, error) {
	if c.TempStorage != nil {
		return c.TempStorage()
	}
	opts := []tempfile.Option{tempfile.WithBufferSize(c.FileBufferSize)}
	if c.Compression {
		opts = append(opts, tempfile.WithCompression())
	}
	return tempfile.New(c.TempDir, opts...)
}
