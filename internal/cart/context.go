package cart

import "context"

type ctxKey struct{}

func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the Store installed by NewContext. Calling it on a
// context without one is a programming error and panics.
func FromContext(ctx context.Context) *Store {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	if !ok || s == nil {
		panic("cart: FromContext called without a cart store in context")
	}
	return s
}
