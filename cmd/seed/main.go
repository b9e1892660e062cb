package main

import (
	"flag"
	"log"

	"github.com/realscripter/vouch/internal/client"
	"github.com/realscripter/vouch/internal/model"
)

// One process has one IP, so the board allows at most three of these per
// hour and one per username. The extras exercise the duplicate and
// rate-limit rejections on purpose.
var seeds = []struct {
	username string
	message  string
	kind     string
}{
	{"Steve", "Traded 3 stacks of diamonds, instant payment.", model.KindVouch},
	{"Herobrine_", "Took my netherite and logged off. Avoid.", model.KindScamVouch},
	{"xX_Trader_Xx", "Fair shop prices, quick at spawn.", model.KindVouch},
	{"Alexx", "Solid middleman for big trades.", model.KindVouch},
	{"steve", "Duplicate on purpose, different case.", model.KindVouch},
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Vouch board server URL")
	flag.Parse()

	log.Printf("Seeding board at %s...\n", *baseURL)

	c := client.New(*baseURL)
	if err := c.Ping(); err != nil {
		log.Fatalf("server not reachable: %v", err)
	}

	for _, s := range seeds {
		sessionID, err := c.Submit(s.username, s.message, s.kind)
		if err != nil {
			log.Printf("✗ %s: %v", s.username, err)
			continue
		}
		log.Printf("✓ %s (%s), session %s", s.username, s.kind, sessionID)
	}

	tallies, err := c.Leaderboard()
	if err != nil {
		log.Fatalf("leaderboard: %v", err)
	}
	for _, t := range tallies {
		log.Printf("  %s: %d vouches, %d scam warnings", t.Username, t.Vouches, t.Scams)
	}
}
