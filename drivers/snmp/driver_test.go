package snmp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gosnmp/gosnmp"

	"github.com/nanoncore/nano-routeros/types"
)

// fakeAgent answers GETs from scalars and walks from subtrees keyed by root OID.
type fakeAgent struct {
	scalars  map[string]gosnmp.SnmpPDU
	trees    map[string][]gosnmp.SnmpPDU
	err      error
	gets     int
	walks    int
	closed   bool
	closeErr error
}

func (f *fakeAgent) Get(oids []string) (*gosnmp.SnmpPacket, error) {
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	packet := &gosnmp.SnmpPacket{}
	for _, oid := range oids {
		pdu, ok := f.scalars[oid]
		if !ok {
			pdu = gosnmp.SnmpPDU{Name: "." + oid, Type: gosnmp.NoSuchObject}
		}
		packet.Variables = append(packet.Variables, pdu)
	}
	return packet, nil
}

func (f *fakeAgent) WalkAll(root string) ([]gosnmp.SnmpPDU, error) {
	f.walks++
	if f.err != nil {
		return nil, f.err
	}
	return f.trees[root], nil
}

func (f *fakeAgent) Close() error {
	f.closed = true
	return f.closeErr
}

func pdu(name string, typ gosnmp.Asn1BER, value interface{}) gosnmp.SnmpPDU {
	return gosnmp.SnmpPDU{Name: "." + name, Type: typ, Value: value}
}

func routerAgent() *fakeAgent {
	return &fakeAgent{
		scalars: map[string]gosnmp.SnmpPDU{
			oidSysDescr:       pdu(oidSysDescr, gosnmp.OctetString, []byte("RouterOS RB4011iGS+")),
			oidSysName:        pdu(oidSysName, gosnmp.OctetString, []byte("core-gw")),
			oidSysUpTime:      pdu(oidSysUpTime, gosnmp.TimeTicks, uint32(9000000)),
			oidMtxrLicVersion: pdu(oidMtxrLicVersion, gosnmp.OctetString, []byte("7.14.2")),
			oidMtxrBoardName:  pdu(oidMtxrBoardName, gosnmp.OctetString, []byte("RB4011iGS+")),
		},
		trees: map[string][]gosnmp.SnmpPDU{
			oidHrProcessorLoad: {
				pdu(oidHrProcessorLoad+".1", gosnmp.Integer, 10),
				pdu(oidHrProcessorLoad+".2", gosnmp.Integer, 20),
			},
			oidHrStorageEntry: {
				pdu(oidHrStorageEntry+".4.65536", gosnmp.Integer, 1024),
				pdu(oidHrStorageEntry+".5.65536", gosnmp.Integer, 1048576),
				pdu(oidHrStorageEntry+".6.65536", gosnmp.Integer, 262144),
				pdu(oidHrStorageEntry+".4.131072", gosnmp.Integer, 1024),
				pdu(oidHrStorageEntry+".5.131072", gosnmp.Integer, 524288),
				pdu(oidHrStorageEntry+".6.131072", gosnmp.Integer, 131072),
			},
			oidIfName: {
				pdu(oidIfName+".2", gosnmp.OctetString, []byte("ether2")),
				pdu(oidIfName+".1", gosnmp.OctetString, []byte("ether1")),
			},
			oidIfType: {
				pdu(oidIfType+".1", gosnmp.Integer, 6),
				pdu(oidIfType+".2", gosnmp.Integer, 209),
			},
			oidIfMtu:         {pdu(oidIfMtu+".1", gosnmp.Integer, 1500)},
			oidIfPhysAddress: {pdu(oidIfPhysAddress+".1", gosnmp.OctetString, []byte{0x4c, 0x5e, 0x0c, 0, 0, 1})},
			oidIfAdminStatus: {
				pdu(oidIfAdminStatus+".1", gosnmp.Integer, 1),
				pdu(oidIfAdminStatus+".2", gosnmp.Integer, 2),
			},
			oidIfOperStatus: {
				pdu(oidIfOperStatus+".1", gosnmp.Integer, 1),
				pdu(oidIfOperStatus+".2", gosnmp.Integer, 2),
			},
			oidIfHCInOctets:  {pdu(oidIfHCInOctets+".1", gosnmp.Counter64, uint64(5000))},
			oidIfHCOutOctets: {pdu(oidIfHCOutOctets+".1", gosnmp.Counter64, uint64(7000))},
		},
	}
}

func newTestDriver(t *testing.T, a *fakeAgent) (*Driver, *int) {
	t.Helper()
	drv, err := NewDriver(&types.DeviceConfig{Address: "192.0.2.1", Protocol: types.ProtocolSNMP})
	if err != nil {
		t.Fatalf("NewDriver() error = %v", err)
	}
	d := drv.(*Driver)
	dials := 0
	d.dial = func(ctx context.Context, config *types.DeviceConfig) (agent, error) {
		dials++
		return a, nil
	}
	return d, &dials
}

func TestNewDriverDefaults(t *testing.T) {
	cfg := &types.DeviceConfig{Address: "192.0.2.1"}
	if _, err := NewDriver(cfg); err != nil {
		t.Fatalf("NewDriver() error = %v", err)
	}
	if cfg.Port != types.DefaultSNMPPort {
		t.Errorf("Port = %d, want %d", cfg.Port, types.DefaultSNMPPort)
	}
	if cfg.Timeout != types.DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, types.DefaultTimeout)
	}
	if _, err := NewDriver(&types.DeviceConfig{}); err == nil {
		t.Error("NewDriver() without address should fail")
	}
}

func TestExecuteSystemResource(t *testing.T) {
	d, _ := newTestDriver(t, routerAgent())

	records, err := d.Execute(context.Background(), "/system/resource/print", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	want := types.Record{
		"uptime":          "1d1h",
		"version":         "7.14.2",
		"board-name":      "RB4011iGS+",
		"cpu-load":        "15",
		"cpu-count":       "2",
		"total-memory":    "1073741824",
		"free-memory":     "805306368",
		"total-hdd-space": "536870912",
		"free-hdd-space":  "402653184",
	}
	for k, v := range want {
		if got := records[0][k]; got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestExecuteInterfaces(t *testing.T) {
	d, _ := newTestDriver(t, routerAgent())

	records, err := d.Execute(context.Background(), "/interface/print", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	ether1 := records[0]
	if ether1["name"] != "ether1" || ether1[".id"] != "*1" {
		t.Fatalf("first record = %v, want ether1 with id *1", ether1)
	}
	checks := map[string]string{
		"type":        "ether",
		"mtu":         "1500",
		"mac-address": "4C:5E:0C:00:00:01",
		"running":     "true",
		"disabled":    "false",
		"rx-byte":     "5000",
		"tx-byte":     "7000",
	}
	for k, v := range checks {
		if ether1[k] != v {
			t.Errorf("ether1 %s = %q, want %q", k, ether1[k], v)
		}
	}

	ether2 := records[1]
	if ether2["type"] != "bridge" || ether2["disabled"] != "true" || ether2["running"] != "false" {
		t.Errorf("ether2 = %v", ether2)
	}
	if _, ok := ether2["rx-byte"]; ok {
		t.Error("ether2 should have no rx-byte without a counter")
	}
}

func TestExecuteFiltersByQuery(t *testing.T) {
	d, _ := newTestDriver(t, routerAgent())

	records, err := d.Execute(context.Background(), "/interface/print", map[string]string{"?name": "ether2"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(records) != 1 || records[0]["name"] != "ether2" {
		t.Errorf("filtered records = %v", records)
	}
}

func TestExecuteIdentity(t *testing.T) {
	d, _ := newTestDriver(t, routerAgent())

	records, err := d.Execute(context.Background(), "/system/identity/print", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(records) != 1 || records[0]["name"] != "core-gw" {
		t.Errorf("identity = %v", records)
	}
}

func TestExecuteUnsupportedCommand(t *testing.T) {
	a := routerAgent()
	d, dials := newTestDriver(t, a)

	for _, cmd := range []string{"/ppp/secret/add", "/ppp/secret/print", "/ip/hotspot/active/remove"} {
		t.Run(cmd, func(t *testing.T) {
			_, err := d.Execute(context.Background(), cmd, map[string]string{"name": "alice"})
			if !types.IsKind(err, types.KindCommand) {
				t.Fatalf("Execute(%s) error = %v, want command failure", cmd, err)
			}
			if !strings.Contains(err.Error(), "not supported over snmp") {
				t.Errorf("error = %v", err)
			}
		})
	}
	if *dials != 0 {
		t.Errorf("unsupported commands dialed %d times", *dials)
	}
	if Supported("/ppp/secret/add") || !Supported("/interface/print") {
		t.Error("Supported() mismatch")
	}
}

func TestExecuteTransportError(t *testing.T) {
	a := routerAgent()
	a.err = errors.New("request timeout (after 3 retries)")
	d, _ := newTestDriver(t, a)

	_, err := d.Execute(context.Background(), "/system/identity/print", nil)
	if !types.IsKind(err, types.KindConnection) {
		t.Errorf("Execute() error = %v, want connection failure", err)
	}
}

func TestConnectFailure(t *testing.T) {
	d, _ := newTestDriver(t, routerAgent())
	d.dial = func(ctx context.Context, config *types.DeviceConfig) (agent, error) {
		return nil, errors.New("no route to host")
	}

	err := d.Connect(context.Background(), nil)
	if !errors.Is(err, types.ErrConnection) {
		t.Errorf("Connect() error = %v, want ErrConnection", err)
	}
	if d.IsConnected() {
		t.Error("IsConnected() = true after failed connect")
	}
}

func TestConnectDisconnect(t *testing.T) {
	a := routerAgent()
	d, dials := newTestDriver(t, a)
	ctx := context.Background()

	if err := d.Connect(ctx, nil); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := d.Connect(ctx, nil); err != nil {
		t.Fatalf("second Connect() error = %v", err)
	}
	if *dials != 1 {
		t.Errorf("dials = %d, want 1", *dials)
	}
	if err := d.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if err := d.Disconnect(ctx); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if !a.closed || d.IsConnected() {
		t.Error("Disconnect() left the session open")
	}
	if err := d.Disconnect(ctx); err != nil {
		t.Errorf("repeated Disconnect() error = %v", err)
	}
	if err := d.HealthCheck(ctx); !types.IsKind(err, types.KindConnection) {
		t.Errorf("HealthCheck() after disconnect = %v", err)
	}
}

func TestDisconnectSwallowsCloseError(t *testing.T) {
	a := routerAgent()
	a.closeErr = errors.New("use of closed network connection")
	d, _ := newTestDriver(t, a)
	ctx := context.Background()

	if err := d.Connect(ctx, nil); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := d.Disconnect(ctx); err != nil {
		t.Errorf("Disconnect() error = %v, want nil", err)
	}
	if !a.closed || d.IsConnected() {
		t.Error("Disconnect() left the session open")
	}
}

func TestGetAndWalkSNMP(t *testing.T) {
	d, _ := newTestDriver(t, routerAgent())
	ctx := context.Background()

	v, err := d.GetSNMP(ctx, oidSysName)
	if err != nil || v != "core-gw" {
		t.Errorf("GetSNMP() = %v, %v", v, err)
	}
	if _, err := d.GetSNMP(ctx, "1.3.6.1.2.1.1.9.0"); !types.IsKind(err, types.KindCommand) {
		t.Errorf("GetSNMP(missing) error = %v", err)
	}

	tree, err := d.WalkSNMP(ctx, oidHrProcessorLoad)
	if err != nil {
		t.Fatalf("WalkSNMP() error = %v", err)
	}
	if tree["1"] != int64(10) || tree["2"] != int64(20) {
		t.Errorf("WalkSNMP() = %v", tree)
	}
}

func TestWalkIndex(t *testing.T) {
	tests := []struct {
		name, pdu, root, want string
	}{
		{"dotted name", ".1.3.6.1.2.1.2.2.1.3.7", "1.3.6.1.2.1.2.2.1.3", "7"},
		{"dotted root", ".1.3.6.1.2.1.25.2.3.1.5.65536", ".1.3.6.1.2.1.25.2.3.1", "5.65536"},
		{"bare", "1.3.6.1.2.1.1.5.0", "1.3.6.1.2.1.1.5", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := walkIndex(tt.pdu, tt.root); got != tt.want {
				t.Errorf("walkIndex() = %q, want %q", got, tt.want)
			}
		})
	}
}
