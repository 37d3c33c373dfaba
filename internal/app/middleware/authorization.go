package middleware

import (
	"context"

	"tubo/internal/app/commands"
	"tubo/internal/app/queries"
)

// Authorizer decides whether a bus message may proceed. It sees the raw
// command or query value and returns a domain error to reject it.
type Authorizer interface {
	Authorize(ctx context.Context, message any) error
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, message any) error

func (f AuthorizerFunc) Authorize(ctx context.Context, message any) error {
	return f(ctx, message)
}

// Authorization rejects commands before they reach their handler.
func Authorization(a Authorizer) CommandMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next commands.Bus) commands.Bus {
		return CommandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := a.Authorize(ctx, cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

// QueryAuthorization rejects queries before they reach their handler.
func QueryAuthorization(a Authorizer) QueryMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next queries.Bus) queries.Bus {
		return QueryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := a.Authorize(ctx, q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}
