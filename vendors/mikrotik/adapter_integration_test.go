//go:build integration
// +build integration

package mikrotik

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/nanoncore/nano-routeros/drivers/api"
	"github.com/nanoncore/nano-routeros/model"
	"github.com/nanoncore/nano-routeros/types"
)

// TestAccountLifecycle_Integration runs create, disable, rate-limit and delete
// against a real router (a CHR works well).
// Run with: ROUTEROS_HOST=10.0.0.1 go test -tags=integration -v ./vendors/mikrotik/... -run Integration
func TestAccountLifecycle_Integration(t *testing.T) {
	host := os.Getenv("ROUTEROS_HOST")
	if host == "" {
		t.Skip("ROUTEROS_HOST not set")
	}
	username := os.Getenv("ROUTEROS_USERNAME")
	if username == "" {
		username = "admin"
	}

	config := &types.DeviceConfig{
		Name:     "test-chr",
		Address:  host,
		Protocol: types.ProtocolAPI,
		Username: username,
		Password: os.Getenv("ROUTEROS_PASSWORD"),
		Timeout:  30 * time.Second,
	}

	driver, err := api.NewDriver(config)
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}
	ctx := context.Background()
	if err := driver.Connect(ctx, config); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer driver.Disconnect(ctx)

	a := NewAdapter(driver)
	name := "itest-" + time.Now().Format("150405")

	for _, class := range []model.Class{model.ClassPPP, model.ClassHotspot} {
		t.Run(string(class), func(t *testing.T) {
			repo, err := a.Accounts(class)
			if err != nil {
				t.Fatal(err)
			}
			ok, err := repo.Create(ctx, &model.Account{Name: name, Password: "itest", Comment: "integration"})
			if err != nil || !ok {
				t.Fatalf("Create() = %v, %v", ok, err)
			}
			defer repo.DeleteByName(ctx, name)

			if ok, err := repo.SetDisabledByName(ctx, name, true); err != nil || !ok {
				t.Errorf("disable = %v, %v", ok, err)
			}
			if ok, err := a.SetSpeed(ctx, class, name, "1M", "2M"); err != nil || !ok {
				t.Errorf("SetSpeed() = %v, %v", ok, err)
			}

			got, err := repo.FindByName(ctx, name)
			if err != nil || got == nil {
				t.Fatalf("FindByName() = %v, %v", got, err)
			}
			t.Logf("%s: profile=%s rate-limit=%s disabled=%v", got.Name, got.Profile, got.RateLimit, got.Disabled)
			if !got.Disabled || got.RateLimit != "1M/2M" {
				t.Errorf("account = %+v", got)
			}
		})
	}

	t.Run("resource", func(t *testing.T) {
		res, err := a.SystemResource(ctx)
		if err != nil {
			t.Fatalf("SystemResource() error = %v", err)
		}
		t.Logf("board=%s version=%s uptime=%s cpu=%d%%", res.BoardName, res.Version, res.Uptime, res.CPULoad)
	})
}
