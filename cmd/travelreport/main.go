package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"schedule-optimizer/internal/league"
	"schedule-optimizer/internal/travel"
)

// travelreport ranks teams by total away travel over an already-fixed
// calendar. Pure lookup, sum and sort; no optimization involved.
func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		teamsPath     = flag.String("teams", "", "teams file (.csv or .json)")
		calendarPath  = flag.String("calendar", "", "fixed-calendar CSV (home, away columns)")
		countriesPath = flag.String("countries", "", "country-code table JSON (optional)")
	)
	flag.Parse()

	if *teamsPath == "" || *calendarPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required -teams or -calendar flag")
	}

	table := league.DefaultCountryTable()
	if *countriesPath != "" {
		var err error
		if table, err = league.LoadCountryTable(*countriesPath); err != nil {
			return err
		}
	}

	registry, err := league.LoadTeams(*teamsPath, table)
	if err != nil {
		return err
	}

	matches, err := travel.LoadMatches(*calendarPath)
	if err != nil {
		return err
	}

	report, err := travel.Aggregate(matches, travel.BuildVenueIndex(registry.Teams()))
	if err != nil {
		return err
	}

	fmt.Println("Team\tTotal travel (km)\tMatches")
	fmt.Println(strings.Repeat("-", 60))
	for _, r := range report.Rankings {
		fmt.Printf("%s\t%.2f\t%d\n", r.Team, r.TotalKm, r.Matches)
	}
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Total away travel across all teams: %.2f km\n", report.TotalKm)
	if report.Skipped > 0 {
		fmt.Printf("Excluded %d match(es) with unmatched team names\n", report.Skipped)
	}

	return nil
}
