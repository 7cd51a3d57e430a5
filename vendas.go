package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LucasJalles/controle-vendas/pkg/app"
)

// main lets operators start the shop screen with `go run vendas.go`.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "vendas: %v\n", err)
		os.Exit(1)
	}
}
