package cache

import (
	"context"

	"github.com/matzehuels/pedalboard/pkg/errors"
)

// Options select and configure a cache backend.
type Options struct {
	Backend  string
	Dir      string
	RedisURL string
	Prefix   string
}

// Open creates the cache named by opts.Backend. An empty backend disables
// caching.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "file cache requires a directory")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "redis cache requires a url")
		}
		var ropts []RedisOption
		if opts.Prefix != "" {
			ropts = append(ropts, WithRedisPrefix(opts.Prefix))
		}
		c, err := NewRedisCache(ctx, opts.RedisURL, ropts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", opts.Backend)
}
