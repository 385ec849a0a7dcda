// Command worker runs the reindex and transaction balance jobs on their cron
// schedules and exposes job metrics on WORKER_METRICS_PORT.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/iati-publisher/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunWorker(ctx); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
