package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/locvowork/orgmaker/internal/feed"
	"github.com/locvowork/orgmaker/internal/logger"
)

func main() {
	ctx := context.Background()
	logger.InitLogging("", "info")

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logger.ErrorLog(ctx, "Seeding failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("seeder", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Define flags
	preset := fs.String("preset", "medium", "Data preset: small, medium, large")
	out := fs.String("out", "employees.csv", "Output file, - for stdout")
	seed := fs.Int64("seed", 0, "Random seed (0 uses the current time)")
	divisions := fs.Int("divisions", 0, "Number of divisions (overrides preset)")
	groups := fs.Int("groups", 0, "Groups per division (overrides preset)")
	teams := fs.Int("teams", 0, "Teams per group (overrides preset)")
	members := fs.Int("members", 0, "Members per team (overrides preset)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	shape := feed.GetPresetShape(feed.SeedPreset(*preset))
	if *divisions > 0 && *groups > 0 && *teams > 0 && *members > 0 {
		shape = feed.SeedShape{
			Divisions:         *divisions,
			GroupsPerDivision: *groups,
			TeamsPerGroup:     *teams,
			MembersPerTeam:    *members,
		}
		fmt.Fprintf(stderr, "Using custom shape: %+v\n", shape)
	} else {
		fmt.Fprintf(stderr, "Using preset: %s\n", *preset)
	}
	fmt.Fprintln(stderr, strings.Repeat("=", 50))

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	w := stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}

	n, err := feed.NewFeedSeeder(*seed).Write(w, shape)
	if err != nil {
		return err
	}
	logger.InfoLog(ctx, "Wrote %d employees to %s (seed %d)", n, *out, *seed)
	return nil
}
