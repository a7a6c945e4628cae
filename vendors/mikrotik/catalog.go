package mikrotik

import (
	"context"

	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
)

// Profiles lists PPP profiles or Hotspot user profiles
func (a *Adapter) Profiles(ctx context.Context, class model.Class) ([]model.Profile, error) {
	s, ok := schemaFor(class)
	if !ok {
		return nil, types.ValidationError("profiles", "unknown account class %q", class)
	}
	recs, err := a.exec.Execute(ctx, cmd(s.profilePath, verbPrint), nil)
	if err != nil {
		return nil, err
	}
	profiles := make([]model.Profile, 0, len(recs))
	for _, rec := range recs {
		profiles = append(profiles, decodeProfile(class, rec, a.unknown))
	}
	return profiles, nil
}

// HotspotServers lists the configured hotspot server instances
func (a *Adapter) HotspotServers(ctx context.Context) ([]model.HotspotServer, error) {
	recs, err := a.exec.Execute(ctx, cmd(PathHotspotServer, verbPrint), nil)
	if err != nil {
		return nil, err
	}
	servers := make([]model.HotspotServer, 0, len(recs))
	for _, rec := range recs {
		servers = append(servers, decodeServer(rec, a.unknown))
	}
	return servers, nil
}
