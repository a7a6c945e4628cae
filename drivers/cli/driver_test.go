package cli

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/nanoncore/nano-routeros/types"
)

type fakeConsole struct {
	lines    []string
	replies  map[string]string
	err      error
	timeout  time.Duration
	closed   bool
	closeErr error
}

func (f *fakeConsole) Execute(line string) (string, error) {
	f.lines = append(f.lines, line)
	if f.err != nil {
		return "", f.err
	}
	return f.replies[line], nil
}

func (f *fakeConsole) SetTimeout(timeout time.Duration) { f.timeout = timeout }

func (f *fakeConsole) Close() error {
	f.closed = true
	return f.closeErr
}

func newTestDriver(t *testing.T, c *fakeConsole) *Driver {
	t.Helper()
	drv, err := NewDriver(&types.DeviceConfig{Address: "192.0.2.1", Protocol: types.ProtocolSSH, Username: "admin"})
	if err != nil {
		t.Fatalf("NewDriver() error = %v", err)
	}
	d := drv.(*Driver)
	d.dial = func(ctx context.Context, config *types.DeviceConfig) (console, error) {
		return c, nil
	}
	return d
}

func TestConsoleLine(t *testing.T) {
	tests := []struct {
		name    string
		command string
		params  map[string]string
		want    string
	}{
		{
			name:    "print all",
			command: "/ppp/secret/print",
			want:    "/ppp secret print terse show-ids without-paging",
		},
		{
			name:    "print with queries",
			command: "/ip/hotspot/user/print",
			params:  map[string]string{"?server": "hs1", "?name": "alice"},
			want:    `/ip hotspot user print terse show-ids without-paging where name="alice" and server="hs1"`,
		},
		{
			name:    "single item print",
			command: "/system/resource/print",
			want:    ":put [/system resource get]",
		},
		{
			name:    "add prints new id",
			command: "/ppp/secret/add",
			params:  map[string]string{"name": "alice", "password": "s3cret", "profile": "default"},
			want:    `:put [/ppp secret add name="alice" password="s3cret" profile="default"]`,
		},
		{
			name:    "set by id",
			command: "/ppp/secret/set",
			params:  map[string]string{".id": "*1A", "rate-limit": "5M/10M"},
			want:    `/ppp secret set numbers=*1A rate-limit="5M/10M"`,
		},
		{
			name:    "remove several",
			command: "/ip/hotspot/active/remove",
			params:  map[string]string{".id": "*1,*2"},
			want:    "/ip hotspot active remove numbers=*1,*2",
		},
		{
			name:    "escaping",
			command: "/ppp/secret/set",
			params:  map[string]string{".id": "*1", "comment": `say "hi" $var?\`},
			want:    `/ppp secret set numbers=*1 comment="say \"hi\" \$var\?\\"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := consoleLine(tt.command, tt.params)
			if err != nil {
				t.Fatalf("consoleLine() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("consoleLine() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "print", "/ppp/secret/"} {
		if _, err := consoleLine(bad, nil); err == nil {
			t.Errorf("consoleLine(%q) should fail", bad)
		}
	}
}

func TestParseTerse(t *testing.T) {
	output := "0   name=alice service=any caller-id=\"\" password=pw1 profile=default comment=\"vip \\\"gold\\\"\"\r\n" +
		"1 X name=bob service=pppoe password=pw2 profile=10M\r\n" +
		"*1F D name=carol profile=default\n" +
		"\n"

	records := parseTerse(output)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3: %v", len(records), records)
	}

	alice := records[0]
	if alice[".id"] != "0" || alice["name"] != "alice" || alice["caller-id"] != "" || alice["comment"] != `vip "gold"` {
		t.Errorf("alice = %v", alice)
	}
	if _, ok := alice["disabled"]; ok {
		t.Error("alice should carry no disabled flag")
	}
	if records[1]["disabled"] != "true" || records[1]["profile"] != "10M" {
		t.Errorf("bob = %v", records[1])
	}
	if records[2][".id"] != "*1F" || records[2]["dynamic"] != "true" {
		t.Errorf("carol = %v", records[2])
	}
}

func TestParseGet(t *testing.T) {
	rec := parseGet("architecture-name=arm64;board-name=RB5009UG+S+;cpu-load=3;free-memory=943718400;uptime=1w2d03:04:05;version=7.14.2 (stable)\n")
	want := map[string]string{
		"architecture-name": "arm64",
		"board-name":        "RB5009UG+S+",
		"cpu-load":          "3",
		"free-memory":       "943718400",
		"uptime":            "1w2d03:04:05",
		"version":           "7.14.2 (stable)",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %q, want %q", k, rec[k], v)
		}
	}
}

func TestCheckOutput(t *testing.T) {
	tests := []struct {
		output  string
		wantErr bool
	}{
		{"", false},
		{"*5", false},
		{"0   name=alice", false},
		{"failure: secret with the same name already exists", true},
		{"input does not match any value of profile", true},
		{"no such item", true},
		{"syntax error (line 1 column 12)", true},
		{"bad command name secrets (line 1 column 6)", true},
		{"\r\nexpected end of command (line 1 column 20)", true},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			err := checkOutput("/ppp/secret/add", tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkOutput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !types.IsKind(err, types.KindCommand) {
				t.Errorf("checkOutput() kind = %v, want command failure", err)
			}
		})
	}
}

func TestCleanOutput(t *testing.T) {
	promptRE := DefaultPromptPattern
	output := "/ppp secret print terse\r\n0   name=alice\r\n[admin@MikroTik] > "
	if got := cleanOutput(promptRE, output, "/ppp secret print terse"); got != "0   name=alice" {
		t.Errorf("cleanOutput() = %q", got)
	}

	for _, prompt := range []string{"[admin@MikroTik] > ", "[admin@core-gw] /ppp secret> "} {
		if !promptRE.MatchString(prompt) {
			t.Errorf("prompt %q not matched", prompt)
		}
	}
	if promptRE.MatchString("0   name=alice") {
		t.Error("data row matched prompt")
	}
	custom := regexp.MustCompile(`(?m)>\s*$`)
	if got := cleanOutput(custom, "ok\n> ", "x"); got != "ok" {
		t.Errorf("cleanOutput(custom) = %q", got)
	}
}

func TestExecuteAddAndPrint(t *testing.T) {
	c := &fakeConsole{replies: map[string]string{
		`:put [/ppp secret add name="alice" password="pw"]`:                  "*9",
		`/ppp secret print terse show-ids without-paging where name="alice"`: "*9   name=alice password=pw profile=default",
	}}
	d := newTestDriver(t, c)
	ctx := context.Background()

	recs, err := d.Execute(ctx, "/ppp/secret/add", map[string]string{"name": "alice", "password": "pw"})
	if err != nil {
		t.Fatalf("add error = %v", err)
	}
	if len(recs) != 1 || recs[0]["ret"] != "*9" {
		t.Errorf("add records = %v", recs)
	}

	recs, err = d.Execute(ctx, "/ppp/secret/print", map[string]string{"?name": "alice"})
	if err != nil {
		t.Fatalf("print error = %v", err)
	}
	if len(recs) != 1 || recs[0][".id"] != "*9" || recs[0]["profile"] != "default" {
		t.Errorf("print records = %v", recs)
	}
	if c.timeout != types.DefaultTimeout {
		t.Errorf("console timeout = %v, want %v", c.timeout, types.DefaultTimeout)
	}
}

func TestExecuteCommandFailureKeepsSession(t *testing.T) {
	c := &fakeConsole{replies: map[string]string{
		`/ppp secret remove numbers=*99`: "no such item",
	}}
	d := newTestDriver(t, c)

	_, err := d.Execute(context.Background(), "/ppp/secret/remove", map[string]string{".id": "*99"})
	if !types.IsKind(err, types.KindCommand) {
		t.Fatalf("Execute() error = %v, want command failure", err)
	}
	if types.DeviceMessage(err) != "no such item" {
		t.Errorf("DeviceMessage() = %q", types.DeviceMessage(err))
	}
	if !d.IsConnected() || c.closed {
		t.Error("command failure should keep the session")
	}
}

func TestExecuteTransportErrorDropsSession(t *testing.T) {
	c := &fakeConsole{err: errors.New("expect: timer expired")}
	d := newTestDriver(t, c)

	_, err := d.Execute(context.Background(), "/interface/print", nil)
	if !types.IsKind(err, types.KindConnection) {
		t.Fatalf("Execute() error = %v, want connection failure", err)
	}
	if d.IsConnected() || !c.closed {
		t.Error("transport error should close the session")
	}
}

func TestConnectErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind types.ErrorKind
	}{
		{"auth", errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none password]"), types.KindAuthentication},
		{"refused", errors.New("dial tcp 192.0.2.1:22: connect: connection refused"), types.KindConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDriver(t, &fakeConsole{})
			d.dial = func(ctx context.Context, config *types.DeviceConfig) (console, error) {
				return nil, tt.err
			}
			if err := d.Connect(context.Background(), nil); !types.IsKind(err, tt.kind) {
				t.Errorf("Connect() error = %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestDisconnectSwallowsCloseError(t *testing.T) {
	c := &fakeConsole{closeErr: errors.New("ssh: channel already closed")}
	d := newTestDriver(t, c)
	ctx := context.Background()

	if err := d.Connect(ctx, nil); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := d.Disconnect(ctx); err != nil {
		t.Errorf("Disconnect() error = %v, want nil", err)
	}
	if !c.closed || d.IsConnected() {
		t.Error("Disconnect() left the session open")
	}
	if err := d.Disconnect(ctx); err != nil {
		t.Errorf("repeated Disconnect() error = %v", err)
	}
}

func TestExecCommands(t *testing.T) {
	c := &fakeConsole{replies: map[string]string{
		"/system identity print": "name: MikroTik",
		"/bogus":                 "bad command name bogus (line 1 column 2)",
	}}
	d := newTestDriver(t, c)

	outputs, err := d.ExecCommands(context.Background(), []string{"/system identity print", "/bogus", "/never"})
	if !types.IsKind(err, types.KindCommand) {
		t.Fatalf("ExecCommands() error = %v, want command failure", err)
	}
	if len(outputs) != 2 || outputs[0] != "name: MikroTik" {
		t.Errorf("outputs = %q", outputs)
	}
	if len(c.lines) != 2 {
		t.Errorf("sent %d lines, want 2", len(c.lines))
	}
}

func TestHealthCheck(t *testing.T) {
	c := &fakeConsole{replies: map[string]string{}}
	d := newTestDriver(t, c)
	ctx := context.Background()

	if err := d.HealthCheck(ctx); !types.IsKind(err, types.KindConnection) {
		t.Errorf("HealthCheck() before connect = %v", err)
	}
	if err := d.Connect(ctx, nil); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := d.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if err := d.Disconnect(ctx); err != nil || !c.closed {
		t.Errorf("Disconnect() error = %v closed = %v", err, c.closed)
	}
}
