package mikrotik

import (
	"context"

	"github.com/nanoncore/nano-routeros/internal/logging"
	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
)

// ActiveSessionRepository reads and terminates connected PPP or Hotspot users
type ActiveSessionRepository struct {
	exec    types.Executor
	schema  schema
	unknown string
}

func newActiveSessionRepository(exec types.Executor, s schema, unknown string) *ActiveSessionRepository {
	return &ActiveSessionRepository{exec: exec, schema: s, unknown: unknown}
}

// List returns every active session of the class
func (r *ActiveSessionRepository) List(ctx context.Context) ([]model.ActiveSession, error) {
	return r.print(ctx, nil)
}

// FindByName returns the sessions of the user called name
func (r *ActiveSessionRepository) FindByName(ctx context.Context, name string) ([]model.ActiveSession, error) {
	if name == "" {
		return nil, types.ValidationError(cmd(r.schema.activePath, verbPrint), "name is required")
	}
	return r.print(ctx, map[string]string{query(r.schema.activeName): name})
}

// Disconnect removes one active session, forcing the user off
func (r *ActiveSessionRepository) Disconnect(ctx context.Context, id string) (bool, error) {
	op := cmd(r.schema.activePath, verbRemove)
	if id == "" {
		return false, types.ValidationError(op, "id is required")
	}
	_, err := r.exec.Execute(ctx, op, map[string]string{fID: id})
	if err == nil {
		return true, nil
	}
	if types.IsFatal(err) {
		return false, err
	}
	logging.L.Warn("disconnect rejected", "op", op, "target", id, "code", CodeOf(err), "err", types.DeviceMessage(err))
	return false, nil
}

// Renew drops every session of the user so counters restart on reconnect.
// The account itself is untouched; nothing online counts as success.
func (r *ActiveSessionRepository) Renew(ctx context.Context, name string) (bool, error) {
	sessions, err := r.FindByName(ctx, name)
	if err != nil {
		if types.IsFatal(err) {
			return false, err
		}
		return false, nil
	}
	ok := true
	for _, s := range sessions {
		removed, err := r.Disconnect(ctx, s.ID)
		if err != nil {
			return false, err
		}
		ok = ok && removed
	}
	logging.L.Info("subscription renewed", "class", r.schema.class, "name", name, "sessions", len(sessions))
	return ok, nil
}

// Traffic returns the counters of the user's first active session.
// Offline users yield Online=false and zero counters.
func (r *ActiveSessionRepository) Traffic(ctx context.Context, name string) (*model.TrafficStats, error) {
	sessions, err := r.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	stats := &model.TrafficStats{Name: name}
	if len(sessions) == 0 {
		return stats, nil
	}
	s := sessions[0]
	stats.Online = true
	stats.Uptime = s.Uptime
	stats.BytesIn = s.BytesIn
	stats.BytesOut = s.BytesOut
	stats.PacketsIn = s.PacketsIn
	stats.PacketsOut = s.PacketsOut
	return stats, nil
}

func (r *ActiveSessionRepository) print(ctx context.Context, params map[string]string) ([]model.ActiveSession, error) {
	recs, err := r.exec.Execute(ctx, cmd(r.schema.activePath, verbPrint), params)
	if err != nil {
		return nil, err
	}
	sessions := make([]model.ActiveSession, 0, len(recs))
	for _, rec := range recs {
		sessions = append(sessions, decodeActive(r.schema, rec, r.unknown))
	}
	return sessions, nil
}

// ActiveSessions lists PPP sessions followed by Hotspot sessions. A device
// without the hotspot package still yields its PPP sessions.
func (a *Adapter) ActiveSessions(ctx context.Context) ([]model.ActiveSession, error) {
	sessions, err := a.pppActive.List(ctx)
	if err != nil {
		return nil, err
	}
	hotspot, err := a.hotspotActive.List(ctx)
	if err != nil {
		if types.IsFatal(err) {
			return nil, err
		}
		logging.L.Warn("hotspot sessions unavailable", "err", types.DeviceMessage(err))
		return sessions, nil
	}
	return append(sessions, hotspot...), nil
}

// Renew drops the active sessions of the named user of class.
func (a *Adapter) Renew(ctx context.Context, class model.Class, name string) (bool, error) {
	repo, err := a.Active(class)
	if err != nil {
		return false, err
	}
	return repo.Renew(ctx, name)
}

// Reset writes a fresh password to the named account of class.
func (a *Adapter) Reset(ctx context.Context, class model.Class, name string) (string, bool, error) {
	repo, err := a.Accounts(class)
	if err != nil {
		return "", false, err
	}
	return repo.Reset(ctx, name, a.passwordLength)
}

// Traffic returns the live counters of the named user of class.
func (a *Adapter) Traffic(ctx context.Context, class model.Class, name string) (*model.TrafficStats, error) {
	repo, err := a.Active(class)
	if err != nil {
		return nil, err
	}
	return repo.Traffic(ctx, name)
}

// Detail returns the named account with its current session, or nil when absent.
func (a *Adapter) Detail(ctx context.Context, class model.Class, name string) (*model.AccountDetail, error) {
	accounts, err := a.Accounts(class)
	if err != nil {
		return nil, err
	}
	acct, err := accounts.FindByName(ctx, name)
	if err != nil || acct == nil {
		return nil, err
	}
	detail := &model.AccountDetail{Account: *acct}

	active, _ := a.Active(class)
	sessions, err := active.FindByName(ctx, name)
	if err != nil {
		if types.IsFatal(err) {
			return nil, err
		}
		logging.L.Warn("session lookup failed", "class", class, "name", name, "err", types.DeviceMessage(err))
		return detail, nil
	}
	if len(sessions) > 0 {
		detail.Online = true
		detail.Session = &sessions[0]
	}
	return detail, nil
}
