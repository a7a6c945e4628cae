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

func TestList_UnknownLabelFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().
		Execute(gomock.Any(), "/ppp/secret/print", gomock.Nil()).
		Return([]types.Record{{".id": "*1"}, {".id": "*2", "name": "bob", "disabled": "yes", "profile": "gold"}}, nil)

	a := NewAdapter(exec, WithUnknownLabel("غير معروف"))
	accounts, err := a.PPP().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if accounts[0].Name != "غير معروف" || accounts[0].Profile != "غير معروف" || accounts[0].Comment != "" || accounts[0].Disabled {
		t.Errorf("accounts[0] = %+v", accounts[0])
	}
	if accounts[1].Name != "bob" || !accounts[1].Disabled {
		t.Errorf("accounts[1] = %+v", accounts[1])
	}
}

func TestDecode_ClassFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("hotspot user without profile", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		exec := mocks.NewMockExecutor(ctrl)
		exec.EXPECT().
			Execute(gomock.Any(), "/ip/hotspot/user/print", gomock.Nil()).
			Return([]types.Record{{".id": "*1", "name": "guest"}}, nil)

		accounts, err := NewAdapter(exec, WithUnknownLabel("n/a")).Hotspot().List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if got := accounts[0]; got.Profile != "default" || got.Server != "all" {
			t.Errorf("account = %+v, want default profile on all servers", got)
		}
	})

	t.Run("active session without address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		exec := mocks.NewMockExecutor(ctrl)
		exec.EXPECT().
			Execute(gomock.Any(), "/ip/hotspot/active/print", gomock.Nil()).
			Return([]types.Record{{".id": "*3", "user": "guest"}}, nil)

		repo, err := NewAdapter(exec, WithUnknownLabel("n/a")).Active(model.ClassHotspot)
		if err != nil {
			t.Fatal(err)
		}
		sessions, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if got := sessions[0]; got.Name != "guest" || got.Address != "n/a" || got.Uptime != "" {
			t.Errorf("session = %+v", got)
		}
	})
}

func TestCreate_SendsClassFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().
		Execute(gomock.Any(), "/ip/hotspot/user/add", map[string]string{
			"name":              "guest",
			"password":          "pw",
			"profile":           "default",
			"server":            "all",
			"mac-address":       "AA:BB:CC:DD:EE:FF",
			"limit-bytes-total": "1073741824",
		}).
		Return([]types.Record{{"ret": "*A"}}, nil)

	a := NewAdapter(exec)
	acct := &model.Account{Name: "guest", Password: "pw", MACAddress: "AA:BB:CC:DD:EE:FF", LimitBytesTotal: model.BytesPerGB, Service: "pppoe"}
	ok, err := a.Hotspot().Create(context.Background(), acct)
	if !ok || err != nil {
		t.Fatalf("Create() = %v, %v", ok, err)
	}
	if acct.ID != "*A" {
		t.Errorf("ID = %q, want *A", acct.ID)
	}
}

func TestMutations_ErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantOK  bool
		wantErr error
	}{
		{"success", nil, true, nil},
		{"device trap", types.CommandError("/ppp/secret/remove", "no such item", nil), false, nil},
		{"connection", types.ConnectionError("/ppp/secret/remove", errors.New("EOF")), false, types.ErrConnection},
		{"authentication", types.AuthenticationError("login", "invalid user name or password (6)", nil), false, types.ErrAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			exec := mocks.NewMockExecutor(ctrl)
			exec.EXPECT().
				Execute(gomock.Any(), "/ppp/secret/remove", map[string]string{".id": "*1"}).
				Return(nil, tt.err)

			ok, err := NewAdapter(exec).PPP().Delete(context.Background(), "*1")
			if ok != tt.wantOK {
				t.Errorf("Delete() ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("Delete() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Delete() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSystemResource(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().
		Execute(gomock.Any(), "/system/resource/print", gomock.Nil()).
		Return([]types.Record{{
			"cpu-load": "12", "free-memory": "1000", "total-memory": "4000",
			"uptime": "3d", "version": "7.14", "board-name": "CCR2004",
		}}, nil)

	res, err := NewAdapter(exec).SystemResource(context.Background())
	if err != nil {
		t.Fatalf("SystemResource() error = %v", err)
	}
	if res.CPULoad != 12 || res.TotalMemory != 4000 || res.MemoryUsedPercent() != 75 || res.Architecture != DefaultUnknownLabel {
		t.Errorf("SystemResource() = %+v", res)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		msg  string
		want ErrorCode
	}{
		{"failure: already have user with this name for this server", ErrAlreadyExists},
		{"failure: secret with the same name already exists", ErrAlreadyExists},
		{"no such item", ErrNotFound},
		{"input does not match any value of profile", ErrInvalidValue},
		{"invalid user name or password (6)", ErrAuthFailed},
		{"not enough permissions (9)", ErrPermission},
		{"something odd", ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := Classify(tt.msg); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.msg, got, tt.want)
			}
		})
	}
}

func TestAdapterLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("driver", func(t *testing.T) {
		a, drv := newTestAdapter(t)
		if !a.IsConnected() {
			t.Fatal("IsConnected() = false after connect")
		}
		if err := a.HealthCheck(ctx); err != nil {
			t.Errorf("HealthCheck() error = %v", err)
		}
		if err := a.Disconnect(ctx); err != nil || drv.IsConnected() {
			t.Errorf("Disconnect() = %v, connected %v", err, drv.IsConnected())
		}
		if err := a.Connect(ctx, nil); err != nil || !a.IsConnected() {
			t.Errorf("Connect() = %v, connected %v", err, a.IsConnected())
		}
	})

	t.Run("bare executor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		exec := mocks.NewMockExecutor(ctrl)
		exec.EXPECT().
			Execute(gomock.Any(), "/system/identity/print", gomock.Nil()).
			Return([]types.Record{{"name": "MikroTik"}}, nil)

		a := NewAdapter(exec)
		if err := a.HealthCheck(ctx); err != nil {
			t.Errorf("HealthCheck() error = %v", err)
		}
		if a.IsConnected() {
			t.Error("IsConnected() = true without a driver")
		}
		if err := a.Connect(ctx, nil); err == nil {
			t.Error("Connect() error = nil without a driver")
		}
		if err := a.Disconnect(ctx); err != nil {
			t.Errorf("Disconnect() error = %v", err)
		}
	})
}
