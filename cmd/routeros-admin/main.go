// Command routeros-admin manages PPP and Hotspot accounts on a MikroTik router.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nanoncore/nano-routeros/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New().Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
