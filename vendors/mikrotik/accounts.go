package mikrotik

import (
	"context"
	"strings"

	"github.com/nanoncore/nano-routeros/internal/logging"
	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
	"github.com/nanoncore/nano-routeros/vendors/common"
)

// DefaultPasswordLength is used by Reset and bulk provisioning when no length is given.
const DefaultPasswordLength = common.DefaultPasswordLength

// AccountRepository manages PPP secrets or Hotspot users.
//
// Mutations return (false, nil) when the device rejects the command and a
// non-nil error only for connection, authentication or validation failures.
type AccountRepository struct {
	exec    types.Executor
	schema  schema
	unknown string
}

func newAccountRepository(exec types.Executor, s schema, unknown string) *AccountRepository {
	return &AccountRepository{exec: exec, schema: s, unknown: unknown}
}

// Class returns the account class this repository manages
func (r *AccountRepository) Class() model.Class { return r.schema.class }

// List returns every account of the class
func (r *AccountRepository) List(ctx context.Context) ([]model.Account, error) {
	return r.print(ctx, nil)
}

// Get returns the account with the given id, or nil when absent
func (r *AccountRepository) Get(ctx context.Context, id string) (*model.Account, error) {
	if id == "" {
		return nil, types.ValidationError(cmd(r.schema.accountPath, verbPrint), "id is required")
	}
	return r.first(ctx, map[string]string{query(fID): id})
}

// FindByName returns the account with the given name, or nil when absent
func (r *AccountRepository) FindByName(ctx context.Context, name string) (*model.Account, error) {
	if name == "" {
		return nil, types.ValidationError(cmd(r.schema.accountPath, verbPrint), "name is required")
	}
	return r.first(ctx, map[string]string{query(fName): name})
}

// FindByProfile filters on the device
func (r *AccountRepository) FindByProfile(ctx context.Context, profile string) ([]model.Account, error) {
	if profile == "" {
		return nil, types.ValidationError(cmd(r.schema.accountPath, verbPrint), "profile is required")
	}
	return r.print(ctx, map[string]string{query(fProfile): profile})
}

// FindByComment fetches every account and keeps those whose comment contains
// text, ignoring case.
func (r *AccountRepository) FindByComment(ctx context.Context, text string) ([]model.Account, error) {
	if strings.TrimSpace(text) == "" {
		return nil, types.ValidationError("find-by-comment", "comment text is required")
	}
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(text)
	var out []model.Account
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.Comment), needle) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Create adds an account. Duplicate names and unknown profiles are reported
// by the device and surface as (false, nil).
func (r *AccountRepository) Create(ctx context.Context, acct *model.Account) (bool, error) {
	err := r.add(ctx, acct)
	if types.IsKind(err, types.KindValidation) {
		return false, err
	}
	return r.outcome(cmd(r.schema.accountPath, verbAdd), acct.Name, err)
}

// add creates the account and returns the raw executor error.
func (r *AccountRepository) add(ctx context.Context, acct *model.Account) error {
	op := cmd(r.schema.accountPath, verbAdd)
	if acct == nil || strings.TrimSpace(acct.Name) == "" {
		return types.ValidationError(op, "name is required")
	}
	if acct.Password == "" {
		return types.ValidationError(op, "password is required")
	}

	recs, err := r.exec.Execute(ctx, op, encodeAccount(r.schema, acct))
	if err != nil {
		return err
	}
	if len(recs) > 0 {
		acct.ID = recs[0][fRet]
	}
	acct.Class = r.schema.class
	logging.L.Info("account created", "class", r.schema.class, "name", acct.Name, "id", acct.ID)
	return nil
}

// Delete removes the account with the given id
func (r *AccountRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.mutate(ctx, verbRemove, id, nil)
}

// SetPassword replaces the account password
func (r *AccountRepository) SetPassword(ctx context.Context, id, password string) (bool, error) {
	if password == "" {
		return false, types.ValidationError(cmd(r.schema.accountPath, verbSet), "password is required")
	}
	return r.mutate(ctx, verbSet, id, map[string]string{fPassword: password})
}

// Enable re-activates a disabled account
func (r *AccountRepository) Enable(ctx context.Context, id string) (bool, error) {
	return r.mutate(ctx, verbEnable, id, nil)
}

// Disable blocks the account without deleting it
func (r *AccountRepository) Disable(ctx context.Context, id string) (bool, error) {
	return r.mutate(ctx, verbDisable, id, nil)
}

// SetRateLimit writes an encoded rate-limit value; "" clears the limit.
func (r *AccountRepository) SetRateLimit(ctx context.Context, id, rate string) (bool, error) {
	return r.mutate(ctx, verbSet, id, map[string]string{fRateLimit: rate})
}

// SetDataLimit applies a data cap in gigabytes. Hotspot users get a byte
// limit; PPP secrets have no such field and get a descriptive comment instead.
// A cap of zero or less applies nothing and succeeds; NaN, infinite or
// oversized caps are a validation failure.
func (r *AccountRepository) SetDataLimit(ctx context.Context, id string, gb float64) (bool, error) {
	if err := model.CheckDataLimit(gb); err != nil {
		return false, types.ValidationError("set-data-limit", "%v", err)
	}
	bytes, ok := model.EncodeDataLimit(gb)
	if !ok {
		return true, nil
	}
	if r.schema.accepts(fLimitBytesTotal) {
		return r.mutate(ctx, verbSet, id, map[string]string{fLimitBytesTotal: formatUint(bytes)})
	}
	return r.mutate(ctx, verbSet, id, map[string]string{fComment: model.DataLimitComment(gb)})
}

// ResolveID returns the .id of the account called name.
func (r *AccountRepository) ResolveID(ctx context.Context, name string) (string, bool, error) {
	acct, err := r.FindByName(ctx, name)
	if err != nil || acct == nil {
		return "", false, err
	}
	return acct.ID, true, nil
}

// DeleteByName removes the account called name; (false, nil) when absent.
func (r *AccountRepository) DeleteByName(ctx context.Context, name string) (bool, error) {
	return r.byName(ctx, name, r.Delete)
}

// SetDisabledByName toggles the account called name.
func (r *AccountRepository) SetDisabledByName(ctx context.Context, name string, disabled bool) (bool, error) {
	if disabled {
		return r.byName(ctx, name, r.Disable)
	}
	return r.byName(ctx, name, r.Enable)
}

// SetPasswordByName replaces the password of the account called name.
func (r *AccountRepository) SetPasswordByName(ctx context.Context, name, password string) (bool, error) {
	return r.byName(ctx, name, func(ctx context.Context, id string) (bool, error) {
		return r.SetPassword(ctx, id, password)
	})
}

// Reset writes a fresh random password of the given length (0 selects the
// default) to the account called name. Active sessions are left alone.
func (r *AccountRepository) Reset(ctx context.Context, name string, length int) (string, bool, error) {
	if length <= 0 {
		length = DefaultPasswordLength
	}
	password, err := common.GeneratePassword(length)
	if err != nil {
		return "", false, err
	}
	ok, err := r.SetPasswordByName(ctx, name, password)
	if !ok {
		return "", false, err
	}
	logging.L.Info("password reset", "class", r.schema.class, "name", name)
	return password, true, nil
}

func (r *AccountRepository) byName(ctx context.Context, name string, fn func(context.Context, string) (bool, error)) (bool, error) {
	id, found, err := r.ResolveID(ctx, name)
	if err != nil {
		if types.IsFatal(err) {
			return false, err
		}
		return false, nil
	}
	if !found {
		logging.L.Warn("account not found", "class", r.schema.class, "name", name)
		return false, nil
	}
	return fn(ctx, id)
}

func (r *AccountRepository) mutate(ctx context.Context, verb, id string, params map[string]string) (bool, error) {
	op := cmd(r.schema.accountPath, verb)
	if id == "" {
		return false, types.ValidationError(op, "id is required")
	}
	args := map[string]string{fID: id}
	for k, v := range params {
		args[k] = v
	}
	_, err := r.exec.Execute(ctx, op, args)
	return r.outcome(op, id, err)
}

// outcome folds device rejections into false and keeps fatal errors.
func (r *AccountRepository) outcome(op, target string, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if types.IsFatal(err) {
		logging.L.Error("operation aborted", "op", op, "target", target, "err", err)
		return false, err
	}
	logging.L.Warn("operation rejected", "op", op, "target", target,
		"code", CodeOf(err), "err", types.DeviceMessage(err))
	return false, nil
}

func (r *AccountRepository) first(ctx context.Context, params map[string]string) (*model.Account, error) {
	accounts, err := r.print(ctx, params)
	if err != nil || len(accounts) == 0 {
		return nil, err
	}
	return &accounts[0], nil
}

func (r *AccountRepository) print(ctx context.Context, params map[string]string) ([]model.Account, error) {
	recs, err := r.exec.Execute(ctx, cmd(r.schema.accountPath, verbPrint), params)
	if err != nil {
		return nil, err
	}
	accounts := make([]model.Account, 0, len(recs))
	for _, rec := range recs {
		accounts = append(accounts, decodeAccount(r.schema.class, rec, r.unknown))
	}
	return accounts, nil
}
