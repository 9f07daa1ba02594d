package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir returns the per-user cache directory (~/.cache/fibersld on Linux).
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "fibersld"), nil
}

// Open picks a backend from a location string:
//
//	""                      file cache in DefaultDir
//	"none"                  NullCache
//	"redis://…", "rediss://…"  RedisCache
//	"mongodb://…", "mongodb+srv://…"  MongoCache
//	anything else           file cache in that directory
func Open(ctx context.Context, location string) (Cache, error) {
	switch {
	case location == "":
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
		return NewFileCache(dir)
	case location == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		return NewRedisCache(ctx, location)
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		return NewMongoCache(ctx, location, "", "")
	default:
		return NewFileCache(location)
	}
}
