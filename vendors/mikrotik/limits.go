package mikrotik

import (
	"context"

	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
)

// SetSpeed writes the upload/download rate limit on the named account.
// Both values empty clears the limit.
func (a *Adapter) SetSpeed(ctx context.Context, class model.Class, name, upload, download string) (bool, error) {
	repo, err := a.Accounts(class)
	if err != nil {
		return false, err
	}
	rate := model.EncodeRate(upload, download)
	return repo.byName(ctx, name, func(ctx context.Context, id string) (bool, error) {
		return repo.SetRateLimit(ctx, id, rate)
	})
}

// SetDataLimit applies a data cap in gigabytes to the named account.
func (a *Adapter) SetDataLimit(ctx context.Context, class model.Class, name string, gb float64) (bool, error) {
	if err := model.CheckDataLimit(gb); err != nil {
		return false, types.ValidationError("set-data-limit", "%v", err)
	}
	repo, err := a.Accounts(class)
	if err != nil {
		return false, err
	}
	return repo.byName(ctx, name, func(ctx context.Context, id string) (bool, error) {
		return repo.SetDataLimit(ctx, id, gb)
	})
}

// ApplyLimits writes the speed and data parts of spec that are set.
func (a *Adapter) ApplyLimits(ctx context.Context, class model.Class, name string, spec model.LimitSpec) (bool, error) {
	if err := spec.Validate(); err != nil {
		return false, types.ValidationError("apply-limits", "%v", err)
	}
	repo, err := a.Accounts(class)
	if err != nil {
		return false, err
	}
	return repo.byName(ctx, name, func(ctx context.Context, id string) (bool, error) {
		if rate := spec.RateLimit(); rate != "" {
			ok, err := repo.SetRateLimit(ctx, id, rate)
			if !ok {
				return false, err
			}
		}
		return repo.SetDataLimit(ctx, id, spec.DataGB)
	})
}
