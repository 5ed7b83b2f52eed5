package standings

import "context"

// Store persists league table text blobs, keyed by path. Token is an opaque
// change token (e.g. a git blob SHA or a content hash) that Put requires for
// compare-and-swap semantics on backends that support it.
type Store interface {
	Get(ctx context.Context, path string) (text string, token string, err error)
	Put(ctx context.Context, path, text, token, message string) (newToken string, err error)
}
