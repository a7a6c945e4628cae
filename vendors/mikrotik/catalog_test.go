package mikrotik

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/nanoncore/nano-routeros/internal/mocks"
	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
)

func TestProfiles(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	ppp, err := a.Profiles(ctx, model.ClassPPP)
	if err != nil {
		t.Fatalf("Profiles(ppp) error = %v", err)
	}
	if len(ppp) != 2 || ppp[0].Name != "default" || ppp[1].Name != "default-encryption" {
		t.Errorf("ppp profiles = %+v", ppp)
	}

	hs, err := a.Profiles(ctx, model.ClassHotspot)
	if err != nil {
		t.Fatalf("Profiles(hotspot) error = %v", err)
	}
	if len(hs) != 1 || hs[0].SharedUsers != "1" || hs[0].Class != model.ClassHotspot {
		t.Errorf("hotspot profiles = %+v", hs)
	}

	if _, err := a.Profiles(ctx, "radius"); !errors.Is(err, types.ErrValidation) {
		t.Errorf("Profiles(radius) error = %v, want validation failure", err)
	}
}

func TestHotspotServers(t *testing.T) {
	a, _ := newTestAdapter(t)

	servers, err := a.HotspotServers(context.Background())
	if err != nil {
		t.Fatalf("HotspotServers() error = %v", err)
	}
	if len(servers) != 1 {
		t.Fatalf("servers = %+v", servers)
	}
	s := servers[0]
	if s.Name != "hotspot1" || s.Interface != "ether2" || s.AddressPool != "hs-pool" || s.Disabled {
		t.Errorf("server = %+v", s)
	}
}

func TestInterfacesAndAddresses(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	ifaces, err := a.Interfaces(ctx)
	if err != nil {
		t.Fatalf("Interfaces() error = %v", err)
	}
	if len(ifaces) != 2 || ifaces[0].Name != "ether1" || !ifaces[0].Running || ifaces[0].MTU != "1500" {
		t.Errorf("interfaces = %+v", ifaces)
	}

	addrs, err := a.IPAddresses(ctx)
	if err != nil {
		t.Fatalf("IPAddresses() error = %v", err)
	}
	if len(addrs) != 1 || addrs[0].Address != "192.168.88.1/24" || addrs[0].Interface != "ether2" || addrs[0].Dynamic {
		t.Errorf("addresses = %+v", addrs)
	}
}

func TestInterfaces_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().
		Execute(gomock.Any(), "/interface/print", gomock.Nil()).
		Return([]types.Record{{".id": "*7", "rx-byte": "2048", "tx-byte": "bogus"}}, nil)

	ifaces, err := NewAdapter(exec, WithUnknownLabel("n/a")).Interfaces(context.Background())
	if err != nil {
		t.Fatalf("Interfaces() error = %v", err)
	}
	got := ifaces[0]
	if got.Name != "n/a" || got.Type != "n/a" || got.MACAddress != "" || got.Running {
		t.Errorf("interface = %+v", got)
	}
	if got.RxBytes != 2048 || got.TxBytes != 0 {
		t.Errorf("counters = %d/%d, want 2048/0", got.RxBytes, got.TxBytes)
	}
}

func TestIdentity(t *testing.T) {
	a, drv := newTestAdapter(t)

	id, err := a.Identity(context.Background())
	if err != nil || id != "MikroTik" {
		t.Fatalf("Identity() = %q, %v", id, err)
	}

	drv.BreakOn("/system/identity/print")
	if _, err := a.Identity(context.Background()); !errors.Is(err, types.ErrConnection) {
		t.Errorf("Identity() error = %v, want connection failure", err)
	}
}
