package auth

import "context"

type ctxKey struct{}

// WithSessionID devuelve un contexto que lleva el id de sesión del navegador.
func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, sid)
}

// SessionIDFrom id de sesión del contexto; vacío si no hay.
func SessionIDFrom(ctx context.Context) string {
	sid, _ := ctx.Value(ctxKey{}).(string)
	return sid
}
