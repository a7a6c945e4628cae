package mikrotik

import (
	"context"

	"github.com/nanoncore/nano-routeros/model"
)

// Interfaces lists every interface with its link state
func (a *Adapter) Interfaces(ctx context.Context) ([]model.Interface, error) {
	recs, err := a.exec.Execute(ctx, cmd(PathInterface, verbPrint), nil)
	if err != nil {
		return nil, err
	}
	ifaces := make([]model.Interface, 0, len(recs))
	for _, rec := range recs {
		ifaces = append(ifaces, decodeInterface(rec, a.unknown))
	}
	return ifaces, nil
}

// IPAddresses lists /ip/address
func (a *Adapter) IPAddresses(ctx context.Context) ([]model.IPAddress, error) {
	recs, err := a.exec.Execute(ctx, cmd(PathIPAddress, verbPrint), nil)
	if err != nil {
		return nil, err
	}
	addrs := make([]model.IPAddress, 0, len(recs))
	for _, rec := range recs {
		addrs = append(addrs, decodeIPAddress(rec, a.unknown))
	}
	return addrs, nil
}
