// Package snmp is a read-only RouterOS transport that answers a fixed set of
// print commands from MIB-II, HOST-RESOURCES-MIB and MIKROTIK-MIB.
package snmp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gosnmp/gosnmp"

	"github.com/nanoncore/nano-routeros/internal/logging"
	"github.com/nanoncore/nano-routeros/types"
	"github.com/nanoncore/nano-routeros/vendors/common"
)

// agent is the slice of gosnmp the driver uses.
type agent interface {
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	WalkAll(root string) ([]gosnmp.SnmpPDU, error)
	Close() error
}

type dialFunc func(ctx context.Context, config *types.DeviceConfig) (agent, error)

// reader answers one print command.
type reader func(d *Driver) ([]types.Record, error)

var readers = map[string]reader{
	"/system/resource/print": (*Driver).readResource,
	"/system/identity/print": (*Driver).readIdentity,
	"/interface/print":       (*Driver).readInterfaces,
}

// Driver implements types.Driver using SNMP.
// Writes and any command outside readers fail as command failures without touching the network.
type Driver struct {
	mu     sync.Mutex
	config *types.DeviceConfig
	snmp   agent
	dial   dialFunc
}

// NewDriver creates a new SNMP driver
func NewDriver(config *types.DeviceConfig) (types.Driver, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if config.Port == 0 {
		config.Port = types.DefaultSNMPPort
	}
	if config.Timeout == 0 {
		config.Timeout = types.DefaultTimeout
	}

	return &Driver{config: config, dial: dialGoSNMP}, nil
}

// Supported reports whether command can be answered over SNMP.
func Supported(command string) bool {
	_, ok := readers[command]
	return ok
}

// Connect opens the UDP socket. SNMP has no login, so bad credentials only
// show up on the first request as a timeout.
func (d *Driver) Connect(ctx context.Context, config *types.DeviceConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if config != nil {
		d.config = config
	}
	return d.connectLocked(ctx)
}

func (d *Driver) connectLocked(ctx context.Context) error {
	if d.snmp != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return types.ConnectionError("connect", err)
	}

	client, err := d.dial(ctx, d.config)
	if err != nil {
		logging.Warnf("snmp connect to %s failed: %v", d.config.Target(), err)
		return types.ConnectionError("connect", err)
	}
	d.snmp = client
	logging.Debugf("snmp session open to %s", d.config.Target())
	return nil
}

// Disconnect closes the SNMP connection. Close errors are logged, never returned.
func (d *Driver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.snmp == nil {
		return nil
	}
	if err := d.snmp.Close(); err != nil {
		logging.Debugf("snmp close: %v", err)
	}
	d.snmp = nil
	return nil
}

// IsConnected returns true if connected
func (d *Driver) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snmp != nil
}

// Execute answers a supported print command, connecting first when needed.
func (d *Driver) Execute(ctx context.Context, command string, params map[string]string) ([]types.Record, error) {
	read, ok := readers[command]
	if !ok {
		return nil, types.CommandError(command, "not supported over snmp", nil)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.connectLocked(ctx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, types.ConnectionError(command, err)
	}

	records, err := read(d)
	if err != nil {
		return nil, types.ConnectionError(command, err)
	}
	return filterRecords(records, params), nil
}

// HealthCheck performs a health check
func (d *Driver) HealthCheck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.snmp == nil {
		return types.ConnectionError("health", fmt.Errorf("not connected to device"))
	}
	if _, err := d.get([]string{oidSysDescr}); err != nil {
		return types.ConnectionError("health", err)
	}
	return nil
}

// GetSNMP implements types.SNMPExecutor - retrieves a single SNMP value
func (d *Driver) GetSNMP(ctx context.Context, oid string) (interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.connectLocked(ctx); err != nil {
		return nil, err
	}
	values, err := d.get([]string{oid})
	if err != nil {
		return nil, types.ConnectionError("get", err)
	}
	v, ok := common.GetSNMPResult(values, oid)
	if !ok {
		return nil, types.CommandError("get", "no such object "+oid, nil)
	}
	return v, nil
}

// WalkSNMP implements types.SNMPExecutor - performs SNMP walk
func (d *Driver) WalkSNMP(ctx context.Context, oid string) (map[string]interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.connectLocked(ctx); err != nil {
		return nil, err
	}
	results, err := d.walk(oid)
	if err != nil {
		return nil, types.ConnectionError("walk", err)
	}
	return results, nil
}

func (d *Driver) readResource() ([]types.Record, error) {
	scalars, err := d.get([]string{oidSysUpTime, oidMtxrLicVersion, oidMtxrBoardName})
	if err != nil {
		return nil, err
	}
	cpu, err := d.walk(oidHrProcessorLoad)
	if err != nil {
		return nil, err
	}
	storage, err := d.walk(oidHrStorageEntry)
	if err != nil {
		return nil, err
	}
	return []types.Record{buildResource(scalars, cpu, storage)}, nil
}

func (d *Driver) readIdentity() ([]types.Record, error) {
	values, err := d.get([]string{oidSysName})
	if err != nil {
		return nil, err
	}
	rec := types.Record{}
	if v, ok := common.GetSNMPResult(values, oidSysName); ok {
		if s, ok := common.ParseStringSNMPValue(v); ok {
			rec["name"] = s
		}
	}
	return []types.Record{rec}, nil
}

func (d *Driver) readInterfaces() ([]types.Record, error) {
	columns := make(map[string]map[string]interface{}, len(interfaceColumns))
	for _, oid := range interfaceColumns {
		values, err := d.walk(oid)
		if err != nil {
			return nil, err
		}
		columns[oid] = values
	}
	return buildInterfaces(columns), nil
}

// get issues one GET and returns values keyed by PDU name. Missing objects are omitted.
func (d *Driver) get(oids []string) (map[string]interface{}, error) {
	packet, err := d.snmp.Get(oids)
	if err != nil {
		return nil, fmt.Errorf("SNMP GET failed: %w", err)
	}

	results := make(map[string]interface{}, len(packet.Variables))
	for _, variable := range packet.Variables {
		if v := convert(variable); v != nil {
			results[variable.Name] = v
		}
	}
	return results, nil
}

// walk returns the subtree under root keyed by instance suffix.
func (d *Driver) walk(root string) (map[string]interface{}, error) {
	pdus, err := d.snmp.WalkAll(root)
	if err != nil {
		return nil, fmt.Errorf("SNMP WALK %s failed: %w", root, err)
	}

	results := make(map[string]interface{}, len(pdus))
	for _, pdu := range pdus {
		if v := convert(pdu); v != nil {
			results[walkIndex(pdu.Name, root)] = v
		}
	}
	return results, nil
}

// convert normalizes a PDU value: strings for octet strings, int64 for
// integers, uint64 for counters, gauges and timeticks, nil for missing objects.
func convert(pdu gosnmp.SnmpPDU) interface{} {
	switch pdu.Type {
	case gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			return string(b)
		}
	case gosnmp.Integer:
		if v, ok := pdu.Value.(int); ok {
			return int64(v)
		}
	case gosnmp.Counter32, gosnmp.Gauge32:
		if v, ok := pdu.Value.(uint); ok {
			return uint64(v)
		}
	case gosnmp.TimeTicks:
		if v, ok := pdu.Value.(uint32); ok {
			return uint64(v)
		}
	case gosnmp.Counter64:
		if v, ok := pdu.Value.(uint64); ok {
			return v
		}
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return nil
	}
	return pdu.Value
}

// gosnmpAgent walks with GETBULK except on v1, which has no bulk PDU.
type gosnmpAgent struct {
	*gosnmp.GoSNMP
}

func (g gosnmpAgent) WalkAll(root string) ([]gosnmp.SnmpPDU, error) {
	if g.Version == gosnmp.Version1 {
		return g.GoSNMP.WalkAll(root)
	}
	return g.BulkWalkAll(root)
}

func (g gosnmpAgent) Close() error {
	if g.Conn == nil {
		return nil
	}
	return g.Conn.Close()
}

func dialGoSNMP(ctx context.Context, config *types.DeviceConfig) (agent, error) {
	version := gosnmp.Version2c
	switch strings.ToLower(common.MetadataString(config.Metadata, "2c", "snmp_version")) {
	case "1":
		version = gosnmp.Version1
	case "3":
		version = gosnmp.Version3
	}

	port := config.Port
	if port <= 0 || port > 65535 {
		port = types.DefaultSNMPPort
	}
	client := &gosnmp.GoSNMP{
		Target:    config.Address,
		Port:      uint16(port), //nolint:gosec // validated above
		Community: common.MetadataString(config.Metadata, "public", "snmp_community"),
		Version:   version,
		Timeout:   config.EffectiveTimeout(),
		Retries:   common.MetadataInt(config.Metadata, 3, "snmp_retries"),
		Context:   context.WithoutCancel(ctx),
	}

	if version == gosnmp.Version3 {
		client.SecurityModel = gosnmp.UserSecurityModel
		client.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 config.Username,
			AuthenticationProtocol:   gosnmp.SHA,
			AuthenticationPassphrase: config.Password,
			PrivacyProtocol:          gosnmp.AES,
			PrivacyPassphrase:        config.Password,
		}
		client.MsgFlags = gosnmp.AuthPriv
	}

	if err := client.Connect(); err != nil {
		return nil, err
	}
	return gosnmpAgent{client}, nil
}

var (
	_ types.Driver       = (*Driver)(nil)
	_ types.SNMPExecutor = (*Driver)(nil)
)
