package league

import "context"

type Repository interface {
	UpsertLeagues(ctx context.Context, leagues []League) error
	ListAll(ctx context.Context) ([]League, error)
}
