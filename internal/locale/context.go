package locale

import "context"

type contextKey struct{}

// WithLocale stores l on ctx.
func WithLocale(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the locale stored on ctx, if any.
func FromContext(ctx context.Context) (Locale, bool) {
	if ctx == nil {
		return "", false
	}
	l, ok := ctx.Value(contextKey{}).(Locale)
	return l, ok && l != ""
}

// FromContextOr returns the locale stored on ctx or fallback.
func FromContextOr(ctx context.Context, fallback Locale) Locale {
	if l, ok := FromContext(ctx); ok {
		return l
	}
	return fallback
}
