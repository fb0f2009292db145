package usecases

import (
	"context"
	"fmt"

	"github.com/example/seatsched/internal/domain/seat"
)

// IdentityProvider resolves the configured session into an account.
type IdentityProvider interface {
	UserInfo(ctx context.Context) (seat.Identity, error)
}

type ResolveIdentity struct {
	Provider IdentityProvider
}

func (u ResolveIdentity) Execute(ctx context.Context) (seat.Identity, error) {
	if u.Provider == nil {
		return seat.Identity{}, fmt.Errorf("provider is nil")
	}
	id, err := u.Provider.UserInfo(ctx)
	if err != nil {
		return seat.Identity{}, err
	}
	if id.AccountNo == 0 {
		return seat.Identity{}, fmt.Errorf("identity has no account number")
	}
	return id, nil
}
