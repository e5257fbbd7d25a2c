package config

import "context"

type pathKey struct{}

// WithPath returns a context carrying an explicit config file location.
// The config node reads it when it runs.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey{}, path)
}

// PathFromContext returns the config file location stored by WithPath, or "".
func PathFromContext(ctx context.Context) string {
	path, _ := ctx.Value(pathKey{}).(string)
	return path
}
