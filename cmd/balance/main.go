// Command balance recomputes transaction balances once and exits. With
// -activity only that activity is recomputed.
//
// Exit codes: 0 = success, 1 = error or failed activities.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/app"
)

func main() {
	activity := flag.String("activity", "", "recompute only this activity id")
	flag.Parse()

	id := uuid.Nil
	if *activity != "" {
		parsed, err := uuid.Parse(*activity)
		if err != nil {
			log.Fatalf("balance: invalid -activity %q: %v", *activity, err)
		}
		id = parsed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := app.RunJob(ctx, app.JobBalance, id)
	if err != nil {
		log.Fatalf("balance: %v", err)
	}
	if stats.Failed > 0 {
		os.Exit(1)
	}
}
