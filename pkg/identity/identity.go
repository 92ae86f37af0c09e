package identity

import "context"

// User is the caller of a session operation.
type User struct {
	ID              string `json:"id"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

type Provider interface {
	CurrentUser(ctx context.Context) User
}

type ctxKey struct{}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok
}

// ContextProvider reads the user placed on the context by the auth
// middleware. A context without one is anonymous.
type ContextProvider struct{}

func (ContextProvider) CurrentUser(ctx context.Context) User {
	u, _ := FromContext(ctx)
	return u
}

// GuestProvider lets everyone in. Used when login is not required.
type GuestProvider struct{}

func (GuestProvider) CurrentUser(ctx context.Context) User {
	if u, ok := FromContext(ctx); ok && u.IsAuthenticated {
		return u
	}
	return User{ID: "guest", IsAuthenticated: true}
}
