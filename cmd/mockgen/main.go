package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"clanpulse/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, churn, drift")
	distribution := flag.String("distribution", "uniform", "Distribution to use: uniform, weibull")
	out := flag.String("out", "./clan_data.json", "Output snapshot file")
	count := flag.Int("count", 50, "Number of members to generate")
	days := flag.Int("days", 28, "Days of clan history")
	seed := flag.Int64("seed", 1, "Random seed")
	noise := flag.Bool("noise", false, "Inject malformed fields")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		Days:         *days,
		Seed:         *seed,
		Noise:        *noise,
		Now:          time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Members: %d, Days: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, cfg.Days, *out)

	doc := engine.Generate(cfg)
	if err := engine.Save(*out, doc); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
