package container

import (
	"fmt"

	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/format"
	"github.com/arloliu/tenseq/internal/options"
	"github.com/arloliu/tenseq/workspace"
)

// DefaultIndexCapacity is the number of chunk slots per IndexBlock used when
// the caller doesn't override it with WithIndexCapacity.
const DefaultIndexCapacity = 1024

// defaultWorkspaceBaseCapacity/defaultWorkspaceBurstMultiplier/
// defaultWorkspaceReserve size the workspace.Pool a Writer or Reader builds
// for itself when the caller doesn't supply one: a single container is
// exclusively owned by one goroutine, but the pool's burst room absorbs a
// caller that pipelines a few Append/GetChunk calls concurrently against
// independent containers sharing the same process.
const (
	defaultWorkspaceBaseCapacity    = 4
	defaultWorkspaceBurstMultiplier = 2
	defaultWorkspaceReserve         = 1
)

func newDefaultWorkspacePool() *workspace.Pool {
	pool, err := workspace.NewPool(defaultWorkspaceBaseCapacity, defaultWorkspaceBurstMultiplier, defaultWorkspaceReserve)
	if err != nil {
		panic(fmt.Sprintf("container: default workspace pool config is invalid: %v", err))
	}
	return pool
}

// Config holds a Writer's construction-time policy: how many chunk slots
// fit in one index block before it seals and chains to the next, and which
// entropy coder (if any) compresses chunk payloads and sealed index blocks.
type Config struct {
	IndexCapacity    int
	ChunkCompression format.CompressionType
	IndexCompression format.CompressionType
	WorkspacePool    *workspace.Pool
}

func defaultConfig() *Config {
	return &Config{
		IndexCapacity:    DefaultIndexCapacity,
		ChunkCompression: format.CompressionNone,
		IndexCompression: format.CompressionS2,
		WorkspacePool:    newDefaultWorkspacePool(),
	}
}

// WithWorkspacePool overrides the workspace.Pool a Writer borrows scratch
// buffers from during Append. Share one Pool across multiple Writers/Readers
// to bound their combined scratch-buffer concurrency; the default is a
// private Pool sized for a single container's own use.
func WithWorkspacePool(p *workspace.Pool) Option {
	return options.New(func(c *Config) error {
		if p == nil {
			return fmt.Errorf("%w: workspace pool must not be nil", errs.ErrInvalidContainerConfig)
		}
		c.WorkspacePool = p
		return nil
	})
}

// Option configures a Writer at Create time.
type Option = options.Option[*Config]

// WithIndexCapacity overrides the number of chunk slots per index block.
func WithIndexCapacity(n int) Option {
	return options.New(func(c *Config) error {
		if n <= 0 {
			return fmt.Errorf("%w: index capacity must be positive, got %d", errs.ErrInvalidContainerConfig, n)
		}
		c.IndexCapacity = n
		return nil
	})
}

// WithChunkCompression sets the entropy coder applied to every chunk's
// codec-pipeline output. CompressionNone (the default) leaves chunk
// payloads uncompressed.
func WithChunkCompression(t format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if t > format.CompressionLZ4 {
			return fmt.Errorf("%w: unknown chunk compression %d", errs.ErrInvalidContainerConfig, t)
		}
		c.ChunkCompression = t
		return nil
	})
}

// WithIndexCompression sets the entropy coder applied to a sealed index
// block's delta-encoded offset array. CompressionS2 is the default; a
// sealed block silently falls back to raw storage whenever the compressed
// form isn't actually smaller.
func WithIndexCompression(t format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if t > format.CompressionLZ4 {
			return fmt.Errorf("%w: unknown index compression %d", errs.ErrInvalidContainerConfig, t)
		}
		c.IndexCompression = t
		return nil
	})
}
