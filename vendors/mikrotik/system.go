package mikrotik

import (
	"context"

	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
)

// SystemResource reads CPU, memory, disk and version figures
func (a *Adapter) SystemResource(ctx context.Context) (*model.SystemResource, error) {
	recs, err := a.exec.Execute(ctx, cmd(PathSystemResource, verbPrint), nil)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, types.CommandError(cmd(PathSystemResource, verbPrint), "empty reply", nil)
	}
	res := decodeResource(recs[0], a.unknown)
	return &res, nil
}

// Identity returns the router's system identity name
func (a *Adapter) Identity(ctx context.Context) (string, error) {
	recs, err := a.exec.Execute(ctx, cmd(PathSystemIdentity, verbPrint), nil)
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return a.unknown, nil
	}
	return recs[0].Get(fName, a.unknown), nil
}
