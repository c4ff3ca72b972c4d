// Command dump-games prints every archived game, newest first.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"jump61/internal/archive"
)

func main() {
	dbPath := flag.String("db", "data/games.db", "Path to SQLite database")
	flag.Parse()

	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		logrus.Fatalf("Database not found at %s", *dbPath)
	}

	store, err := archive.Open(*dbPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open database")
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	games, err := store.List(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to query games")
	}

	for _, g := range games {
		fmt.Printf("Game ID: %s\n", g.GameID)
		fmt.Printf("Time: %s - %s\n", g.StartedAt.Format(time.RFC822), g.EndedAt.Format(time.RFC822))
		fmt.Printf("Board: %dx%d\n", g.Size, g.Size)
		fmt.Printf("Players: %s (red) vs %s (blue)\n", g.RedName, g.BlueName)
		fmt.Printf("Result: Winner %s (%s)\n", g.Winner, g.Termination)

		fmt.Println("PGN Content (formatted):")
		formatted, err := json.MarshalIndent(archive.Turns(g.Moves), "", "  ")
		if err != nil {
			logrus.WithError(err).Fatal("Failed to format moves")
		}
		fmt.Println(string(formatted))
		fmt.Println("--------------------------------------------------")
	}

	fmt.Printf("Total games found: %d\n", len(games))
}
