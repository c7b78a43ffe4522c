package ports

import "context"

// KeyStore holds public key material by ref. Get wraps fs.ErrNotExist when
// nothing is stored at ref.
type KeyStore interface {
	Get(ctx context.Context, ref string) (string, error)
	Put(ctx context.Context, ref string, value string) error
	Delete(ctx context.Context, ref string) error
}
