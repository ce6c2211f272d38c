package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dgallion1/documind/internal/config"
	"github.com/dgallion1/documind/internal/mongostore"
)

// mongocheck verifies that the configured datastore is reachable and
// reports what the service will find there. The vector index itself is
// created in Atlas out-of-band; this tool only reminds you of that.
func main() {
	godotenv.Load()

	cfg := config.Load()
	if cfg.MongoURI == "" {
		fmt.Fprintln(os.Stderr, "MONGO_URI is not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
	defer cancel()

	store, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close(ctx)

	fmt.Printf("connected to %s/%s\n", mongostore.DatabaseName, mongostore.CollectionName)

	names, err := store.Collections(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list collections failed: %v\n", err)
		os.Exit(1)
	}
	found := false
	for _, name := range names {
		if name == mongostore.CollectionName {
			found = true
		}
	}
	if found {
		count, err := store.Count(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "count documents failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("collection %q exists with %d embedding records\n", mongostore.CollectionName, count)
	} else {
		fmt.Printf("collection %q does not exist yet; it is created on first ingest\n", mongostore.CollectionName)
	}

	fmt.Printf("reminder: the vector search index %q (path %q) must be created in Atlas manually\n",
		mongostore.VectorIndexName, mongostore.VectorPath)
}
