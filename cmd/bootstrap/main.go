// Command bootstrap registers a publisher and prints its API key. It is used
// to create the first publisher without going through the admin API.
//
// Usage:
//
//	bootstrap -iati-id=GB-CHC-123456 -name="Example Trust"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/heartmarshall/iati-publisher/internal/app"
	"github.com/heartmarshall/iati-publisher/internal/config"
	"github.com/heartmarshall/iati-publisher/internal/service/publisher"
)

func main() {
	iatiID := flag.String("iati-id", "", "IATI organisation identifier of the publisher")
	name := flag.String("name", "", "publisher name")
	displayName := flag.String("display-name", "", "optional display name")
	flag.Parse()

	if *iatiID == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "Usage: bootstrap -iati-id=GB-CHC-123456 -name=\"Example Trust\" [-display-name=...]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deps, err := app.NewDeps(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer deps.Close()

	created, err := deps.Publishers.Create(ctx, publisher.Input{
		IATIID:      *iatiID,
		Name:        *name,
		DisplayName: *displayName,
	})
	if err != nil {
		log.Fatalf("create publisher: %v", err)
	}

	fmt.Printf("Publisher %q created with id %s.\n", created.Publisher.IATIID, created.Publisher.ID)
	fmt.Printf("API key (shown once): %s\n", created.APIKey)
}
