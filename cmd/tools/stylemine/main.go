// stylemine is the offline corpus miner: it reads stored user messages and
// writes the behavior model (slang + top emoji vocabulary) the humanizer
// loads at startup. Run it periodically; it never touches the live path.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/strangerlabs/ghostline/internal/analysis/style"
	"github.com/strangerlabs/ghostline/internal/config"
	"github.com/strangerlabs/ghostline/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env file, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	dbPath := flag.String("db", cfg.Store.Path, "path to the ghostline database")
	outPath := flag.String("out", "behavior_model.json", "output path for the behavior model")
	minCount := flag.Int("min", 5, "minimum word frequency for a slang candidate")
	topN := flag.Int("top", 10, "number of emojis to keep")
	timeout := flag.Duration("timeout", 30*time.Second, "query timeout")
	flag.Parse()

	db, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("failed to open store at %s: %v", *dbPath, err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	texts, err := db.UserTexts(ctx)
	if err != nil {
		log.Fatalf("failed to read corpus: %v", err)
	}

	report := style.Mine(texts, *minCount, *topN)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal behavior model: %v", err)
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", *outPath, err)
	}

	log.Printf("behavior model written to %s: %d messages mined, %d slang tokens, %d emojis",
		*outPath, len(texts), len(report.Slang), len(report.TopEmojis))
}
