package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pfrederiksen/landmark-ics/internal/calendar"
	"github.com/pfrederiksen/landmark-ics/internal/config"
	"github.com/pfrederiksen/landmark-ics/internal/event"
	"github.com/pfrederiksen/landmark-ics/internal/storage"
)

func main() {
	cfg := config.DefaultConfig()
	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := event.Materializer{Duration: cfg.EventDuration, UIDDomain: cfg.UIDDomain}
	start := time.Now().In(loc).AddDate(0, 0, 7)
	start = time.Date(start.Year(), start.Month(), start.Day(), 19, 30, 0, 0, loc)

	events := m.MakeAll("Sample Show; Matinee, Evening", []time.Time{
		start.Add(-5*time.Hour - 30*time.Minute),
		start,
	}, "https://landmarktheatre.org/events/", "A sample event\nwith two showtimes.")

	filename := "sample-landmark.ics"
	meta := calendar.Meta{
		ProductID:     cfg.ProductID,
		Name:          cfg.CalendarName,
		Timezone:      cfg.Timezone,
		SummaryPrefix: cfg.Prefix(),
	}

	icsContent := calendar.GenerateICS(events, meta, time.Now())
	if err := storage.WriteFile(filename, 0o600, func(w io.Writer) error {
		_, err := io.WriteString(w, icsContent)
		return err
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s\n\n", filename)
	fmt.Println("Open it with a calendar app or run:")
	fmt.Printf("  landmark-ics inspect %s\n", filename)
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
