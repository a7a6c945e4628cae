package mikrotik

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nanoncore/nano-routeros/internal/logging"
	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
	"github.com/nanoncore/nano-routeros/vendors/common"
)

// MaxBulkAccounts caps a single bulk run.
const MaxBulkAccounts = 1000

// DefaultBulkPrefix names prefix-mode accounts when no prefix is given.
const DefaultBulkPrefix = "user"

// PlanBulkNames validates req and returns the account names it will create.
// It never touches the device.
func PlanBulkNames(req model.BulkRequest) ([]string, error) {
	const op = "bulk"

	if _, ok := schemaFor(req.Class); !ok {
		return nil, types.ValidationError(op, "unknown account class %q", req.Class)
	}
	if req.PasswordLength < 0 {
		return nil, types.ValidationError(op, "password length must be at least 1")
	}

	switch req.NameType {
	case model.NameTypeCustom:
		if len(req.Names) == 0 {
			return nil, types.ValidationError(op, "custom mode needs at least one name")
		}
		if len(req.Names) > MaxBulkAccounts {
			return nil, types.ValidationError(op, "count %d exceeds the limit of %d", len(req.Names), MaxBulkAccounts)
		}
		names := make([]string, 0, len(req.Names))
		for i, n := range req.Names {
			n = strings.TrimSpace(n)
			if n == "" {
				return nil, types.ValidationError(op, "name #%d is empty", i+1)
			}
			names = append(names, n)
		}
		return names, nil

	case model.NameTypePrefix, "":
		if req.Count < 1 {
			return nil, types.ValidationError(op, "count must be at least 1, got %d", req.Count)
		}
		if req.Count > MaxBulkAccounts {
			return nil, types.ValidationError(op, "count %d exceeds the limit of %d", req.Count, MaxBulkAccounts)
		}
		prefix := orDefault(strings.TrimSpace(req.Prefix), DefaultBulkPrefix)
		names := make([]string, req.Count)
		for i := range names {
			names[i] = fmt.Sprintf("%s%03d", prefix, i+1)
		}
		return names, nil
	}
	return nil, types.ValidationError(op, "unknown name type %q", req.NameType)
}

// BulkProvision creates accounts one by one in the current session. A device
// rejection marks that account failed and the run continues; a connection or
// authentication failure aborts the run and no result is returned.
func (a *Adapter) BulkProvision(ctx context.Context, req model.BulkRequest) (*model.BulkResult, error) {
	names, err := PlanBulkNames(req)
	if err != nil {
		return nil, err
	}
	repo, err := a.Accounts(req.Class)
	if err != nil {
		return nil, err
	}
	length := req.PasswordLength
	if length == 0 {
		length = DefaultPasswordLength
	}

	profile, server := req.Profile, ""
	if req.Class == model.ClassHotspot {
		profile = orDefault(profile, DefaultHotspotProfile)
		server = orDefault(req.Server, DefaultHotspotServer)
	} else {
		profile = orDefault(profile, DefaultPPPProfile)
	}

	batchID := uuid.NewString()
	log := logging.L.With("batch", batchID, "class", req.Class)
	log.Info("bulk provisioning started", "count", len(names))

	result := &model.BulkResult{BatchID: batchID, Results: make([]model.BulkOutcome, 0, len(names))}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			log.Error("bulk provisioning cancelled", "err", err)
			return nil, types.ConnectionError("bulk", err)
		}
		password, err := common.GeneratePassword(length)
		if err != nil {
			return nil, err
		}

		acct := &model.Account{
			Name:     name,
			Password: password,
			Profile:  profile,
			Server:   server,
			Comment:  req.Comment,
		}
		outcome := model.BulkOutcome{
			Username: name,
			Password: password,
			Profile:  profile,
			Server:   server,
			Class:    req.Class,
			Status:   model.BulkCreated,
		}

		if err := repo.add(ctx, acct); err != nil {
			if types.IsFatal(err) {
				log.Error("bulk provisioning aborted", "at", name, "err", err)
				return nil, err
			}
			outcome.Status = model.BulkFailed
			outcome.Error = types.DeviceMessage(err)
			outcome.Code = string(CodeOf(err))
			result.Failed++
			log.Warn("account rejected", "name", name, "code", outcome.Code, "err", outcome.Error)
		} else {
			result.Succeeded++
		}
		result.Results = append(result.Results, outcome)
	}

	log.Info("bulk provisioning finished", "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}
