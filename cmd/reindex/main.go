// Command reindex pushes every modified activity into the search index once
// and exits. It is intended for an external scheduler when cmd/worker is not
// deployed.
//
// Exit codes: 0 = success, 1 = error or failed activities.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := app.RunJob(ctx, app.JobReindex, uuid.Nil)
	if err != nil {
		log.Fatalf("reindex: %v", err)
	}
	if stats.Failed > 0 {
		os.Exit(1)
	}
}
