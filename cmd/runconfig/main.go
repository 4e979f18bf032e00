// Command runconfig collects the running configuration of a service from
// the configuration endpoints declared in its OpenAPI documents.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/runconfig/cmd/runconfig/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
