package middleware

import (
	"context"

	"tubo/internal/app/commands"
	"tubo/internal/app/queries"
)

// CommandMiddleware decorates a command bus. Middleware are applied by
// ChainCommands with the first argument outermost.
type CommandMiddleware func(next commands.Bus) commands.Bus

// QueryMiddleware decorates a query bus.
type QueryMiddleware func(next queries.Bus) queries.Bus

// CommandFunc adapts a plain function to the commands.Bus interface, the
// same way http.HandlerFunc adapts handlers.
type CommandFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f CommandFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

// QueryFunc adapts a plain function to the queries.Bus interface.
type QueryFunc func(ctx context.Context, q queries.Query) (any, error)

func (f QueryFunc) Ask(ctx context.Context, q queries.Query) (any, error) {
	return f(ctx, q)
}

// ChainCommands wraps base with mws, outermost first.
func ChainCommands(base commands.Bus, mws ...CommandMiddleware) commands.Bus {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

// ChainQueries wraps base with mws, outermost first.
func ChainQueries(base queries.Bus, mws ...QueryMiddleware) queries.Bus {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}
