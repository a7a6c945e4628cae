// Package mock provides an in-memory RouterOS device for tests and dry runs.
package mock

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nanoncore/nano-routeros/types"
)

// Driver simulates a RouterOS device behind the types.Driver interface.
// It keeps one table per menu path, allocates ".id" values, rejects duplicate
// names and supports the print/add/set/remove/enable/disable verbs.
type Driver struct {
	config     *types.DeviceConfig
	connected  bool
	mu         sync.RWMutex
	tables     map[string][]types.Record
	nextID     int
	cmdHistory []string

	// Latency delays every command, to exercise timeouts
	Latency time.Duration

	login        *credentials
	connectErr   error
	commandFault map[string]string
	brokenOn     map[string]bool
}

type credentials struct {
	username string
	password string
}

// paths whose rows must have unique names, with the device's duplicate message
var uniqueNames = map[string]string{
	"/ppp/secret":              "failure: secret with the same name already exists",
	"/ppp/profile":             "failure: profile with the same name already exists",
	"/ip/hotspot/user":         "failure: already have user with this name for this server",
	"/ip/hotspot/user/profile": "failure: already have such profile",
	"/ip/hotspot":              "failure: already have hotspot with such name",
	"/interface":               "failure: already have interface with such name",
}

// NewDriver creates a mock device seeded with a minimal default configuration
func NewDriver(config *types.DeviceConfig) (types.Driver, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return New(config), nil
}

// New is NewDriver without the interface conversion, for tests that need the helpers.
func New(config *types.DeviceConfig) *Driver {
	if config == nil {
		config = &types.DeviceConfig{Name: "mock", Address: "127.0.0.1", Protocol: types.ProtocolMock}
	}
	d := &Driver{
		config:       config,
		tables:       make(map[string][]types.Record),
		cmdHistory:   make([]string, 0),
		commandFault: make(map[string]string),
		brokenOn:     make(map[string]bool),
	}
	d.seed()
	return d
}

func (d *Driver) seed() {
	d.insert("/ppp/profile", types.Record{"name": "default", "local-address": "", "remote-address": "", "only-one": "default"})
	d.insert("/ppp/profile", types.Record{"name": "default-encryption", "use-encryption": "yes"})
	d.insert("/ip/hotspot/user/profile", types.Record{"name": "default", "shared-users": "1", "status-autorefresh": "1m", "keepalive-timeout": "2m"})
	d.insert("/ip/hotspot", types.Record{"name": "hotspot1", "interface": "ether2", "address-pool": "hs-pool", "profile": "hsprof1", "disabled": "false"})
	d.insert("/interface", types.Record{"name": "ether1", "type": "ether", "running": "true", "disabled": "false", "mtu": "1500", "mac-address": "4C:5E:0C:00:00:01"})
	d.insert("/interface", types.Record{"name": "ether2", "type": "ether", "running": "true", "disabled": "false", "mtu": "1500", "mac-address": "4C:5E:0C:00:00:02"})
	d.insert("/ip/address", types.Record{"address": "192.168.88.1/24", "network": "192.168.88.0", "interface": "ether2", "disabled": "false", "dynamic": "false"})
	d.tables["/system/resource"] = []types.Record{{
		"uptime": "1w2d3h", "version": "7.14.3 (stable)", "board-name": "hEX", "architecture-name": "arm",
		"cpu-load": "3", "cpu-count": "4", "free-memory": "200000000", "total-memory": "268435456",
		"free-hdd-space": "100000000", "total-hdd-space": "134217728",
	}}
	d.tables["/system/identity"] = []types.Record{{"name": "MikroTik"}}
}

// RequireLogin makes Connect reject any other username/password pair.
func (d *Driver) RequireLogin(username, password string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.login = &credentials{username: username, password: password}
}

// SetConnectError makes every Connect fail with a connection failure wrapping err.
func (d *Driver) SetConnectError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connectErr = err
}

// FailCommand makes every call of command fail with a device trap carrying message.
func (d *Driver) FailCommand(command, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commandFault[command] = message
}

// BreakOn makes command drop the session with a transport error.
func (d *Driver) BreakOn(command string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.brokenOn[command] = true
}

// ClearFaults removes all injected failures.
func (d *Driver) ClearFaults() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connectErr = nil
	d.commandFault = make(map[string]string)
	d.brokenOn = make(map[string]bool)
}

// Connect simulates logging in to the device
func (d *Driver) Connect(ctx context.Context, config *types.DeviceConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if config != nil {
		d.config = config
	}
	return d.connectLocked(ctx)
}

func (d *Driver) connectLocked(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return types.ConnectionError("connect", err)
	}
	if d.connectErr != nil {
		return types.ConnectionError("connect", d.connectErr)
	}
	if d.login != nil && (d.config.Username != d.login.username || d.config.Password != d.login.password) {
		return types.AuthenticationError("login", "invalid user name or password (6)", nil)
	}
	d.connected = true
	return nil
}

// Disconnect simulates closing the session
func (d *Driver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
	return nil
}

// IsConnected returns true while the simulated session is open
func (d *Driver) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// HealthCheck reads the simulated identity
func (d *Driver) HealthCheck(ctx context.Context) error {
	_, err := d.Execute(ctx, "/system/identity/print", nil)
	return err
}

// Execute applies one command to the in-memory tables
func (d *Driver) Execute(ctx context.Context, command string, params map[string]string) ([]types.Record, error) {
	if d.Latency > 0 {
		select {
		case <-time.After(d.Latency):
		case <-ctx.Done():
			d.mu.Lock()
			d.connected = false
			d.mu.Unlock()
			return nil, types.ConnectionError(command, ctx.Err())
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		if err := d.connectLocked(ctx); err != nil {
			return nil, err
		}
	}
	d.recordCommand(command, params)

	if d.brokenOn[command] {
		d.connected = false
		return nil, types.ConnectionError(command, fmt.Errorf("connection reset by peer"))
	}
	if msg, ok := d.commandFault[command]; ok {
		return nil, types.CommandError(command, msg, nil)
	}

	idx := strings.LastIndex(command, "/")
	if idx <= 0 {
		return nil, types.CommandError(command, "no such command prefix", nil)
	}
	path, verb := command[:idx], command[idx+1:]

	switch verb {
	case "print":
		return d.print(path, params), nil
	case "add":
		return d.add(command, path, params)
	case "set":
		return nil, d.set(command, path, params)
	case "remove":
		return nil, d.remove(command, path, params)
	case "enable":
		return nil, d.setDisabled(command, path, params, "false")
	case "disable":
		return nil, d.setDisabled(command, path, params, "true")
	}
	return nil, types.CommandError(command, "no such command", nil)
}

func (d *Driver) print(path string, params map[string]string) []types.Record {
	var out []types.Record
	for _, row := range d.tables[path] {
		if matches(row, params) {
			out = append(out, copyRecord(row))
		}
	}
	return out
}

func matches(row types.Record, params map[string]string) bool {
	for k, v := range params {
		if !strings.HasPrefix(k, "?") {
			continue
		}
		if row[strings.TrimPrefix(k, "?")] != v {
			return false
		}
	}
	return true
}

func (d *Driver) add(command, path string, params map[string]string) ([]types.Record, error) {
	row := make(types.Record, len(params)+2)
	for k, v := range params {
		if strings.HasPrefix(k, "?") || k == ".id" {
			continue
		}
		row[k] = v
	}

	if msg, ok := uniqueNames[path]; ok {
		name := row["name"]
		if name == "" {
			return nil, types.CommandError(command, "failure: name must be set", nil)
		}
		for _, existing := range d.tables[path] {
			if existing["name"] == name && sameServer(path, existing, row) {
				return nil, types.CommandError(command, msg, nil)
			}
		}
	}
	if err := d.checkReferences(command, path, row); err != nil {
		return nil, err
	}
	if _, ok := row["disabled"]; !ok {
		row["disabled"] = "false"
	}

	id := d.insert(path, row)
	return []types.Record{{"ret": id}}, nil
}

// hotspot user names are unique per server; "all" overlaps every server
func sameServer(path string, a, b types.Record) bool {
	if path != "/ip/hotspot/user" {
		return true
	}
	sa, sb := a.Get("server", "all"), b.Get("server", "all")
	return sa == sb || sa == "all" || sb == "all"
}

func (d *Driver) checkReferences(command, path string, row types.Record) error {
	var profilePath string
	switch path {
	case "/ppp/secret":
		profilePath = "/ppp/profile"
	case "/ip/hotspot/user":
		profilePath = "/ip/hotspot/user/profile"
		if server := row["server"]; server != "" && server != "all" && !d.exists("/ip/hotspot", server) {
			return types.CommandError(command, "input does not match any value of server", nil)
		}
	default:
		return nil
	}
	if profile := row["profile"]; profile != "" && !d.exists(profilePath, profile) {
		return types.CommandError(command, "input does not match any value of profile", nil)
	}
	return nil
}

func (d *Driver) exists(path, name string) bool {
	for _, row := range d.tables[path] {
		if row["name"] == name {
			return true
		}
	}
	return false
}

func (d *Driver) set(command, path string, params map[string]string) error {
	row, err := d.lookup(command, path, params)
	if err != nil {
		return err
	}
	if name, ok := params["name"]; ok && name != row["name"] {
		if msg, unique := uniqueNames[path]; unique && d.exists(path, name) {
			return types.CommandError(command, msg, nil)
		}
	}
	for k, v := range params {
		if k == ".id" || strings.HasPrefix(k, "?") {
			continue
		}
		row[k] = v
	}
	return nil
}

func (d *Driver) setDisabled(command, path string, params map[string]string, value string) error {
	row, err := d.lookup(command, path, params)
	if err != nil {
		return err
	}
	row["disabled"] = value
	return nil
}

func (d *Driver) remove(command, path string, params map[string]string) error {
	ids := strings.Split(params[".id"], ",")
	for _, id := range ids {
		if _, err := d.lookup(command, path, map[string]string{".id": id}); err != nil {
			return err
		}
	}
	for _, id := range ids {
		rows := d.tables[path]
		for i, row := range rows {
			if row[".id"] == id {
				d.tables[path] = append(rows[:i], rows[i+1:]...)
				break
			}
		}
	}
	return nil
}

// lookup resolves ".id", accepting a name in its place as RouterOS does
func (d *Driver) lookup(command, path string, params map[string]string) (types.Record, error) {
	id := params[".id"]
	if id == "" {
		return nil, types.CommandError(command, "failure: .id must be set", nil)
	}
	for _, row := range d.tables[path] {
		if row[".id"] == id || row["name"] == id {
			return row, nil
		}
	}
	return nil, types.CommandError(command, "no such item", nil)
}

func (d *Driver) insert(path string, row types.Record) string {
	d.nextID++
	id := "*" + strings.ToUpper(strconv.FormatInt(int64(d.nextID), 16))
	row[".id"] = id
	d.tables[path] = append(d.tables[path], row)
	return id
}

// AddActiveSession seeds a connected user under /ppp/active or /ip/hotspot/active.
func (d *Driver) AddActiveSession(path string, session types.Record) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insert(path, copyRecord(session))
}

// Rows returns a copy of every row under path (useful for testing)
func (d *Driver) Rows(path string) []types.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.print(path, nil)
}

// GetCommandHistory returns the command history (useful for testing)
func (d *Driver) GetCommandHistory() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	history := make([]string, len(d.cmdHistory))
	copy(history, d.cmdHistory)
	return history
}

// CountCommands returns how many times command was executed
func (d *Driver) CountCommands(command string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, line := range d.cmdHistory {
		if line == command || strings.HasPrefix(line, command+" ") {
			n++
		}
	}
	return n
}

func (d *Driver) recordCommand(command string, params map[string]string) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	line := command
	for _, k := range keys {
		line += " " + k + "=" + params[k]
	}
	d.cmdHistory = append(d.cmdHistory, line)
}

func copyRecord(r types.Record) types.Record {
	out := make(types.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
