package mikrotik

import (
	"context"
	"strings"

	"github.com/nanoncore/nano-routeros/internal/logging"
	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
)

// FindByProfile returns the accounts on profile across the classes in scope.
func (a *Adapter) FindByProfile(ctx context.Context, profile string, scope model.Scope) ([]model.Account, error) {
	return a.fanOut(ctx, scope, func(r *AccountRepository) ([]model.Account, error) {
		return r.FindByProfile(ctx, profile)
	})
}

// FindByComment returns the accounts whose comment contains text, ignoring
// case, across the classes in scope. Blank text is a validation failure.
func (a *Adapter) FindByComment(ctx context.Context, text string, scope model.Scope) ([]model.Account, error) {
	if strings.TrimSpace(text) == "" {
		return nil, types.ValidationError("find-by-comment", "comment text is required")
	}
	return a.fanOut(ctx, scope, func(r *AccountRepository) ([]model.Account, error) {
		return r.FindByComment(ctx, text)
	})
}

// fanOut concatenates per-class results. A class the device rejects is
// skipped; connection and validation failures abort.
func (a *Adapter) fanOut(ctx context.Context, scope model.Scope, fn func(*AccountRepository) ([]model.Account, error)) ([]model.Account, error) {
	var out []model.Account
	for _, class := range scope.Classes() {
		repo, err := a.Accounts(class)
		if err != nil {
			return nil, err
		}
		accounts, err := fn(repo)
		if err != nil {
			if types.IsFatal(err) {
				return nil, err
			}
			logging.L.Warn("search skipped class", "class", class, "err", types.DeviceMessage(err))
			continue
		}
		out = append(out, accounts...)
	}
	return out, nil
}
