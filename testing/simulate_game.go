package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/sirupsen/logrus"

	"github.com/tatianab/student-sim/internal/config"
	"github.com/tatianab/student-sim/internal/content"
	"github.com/tatianab/student-sim/internal/engine"
	"github.com/tatianab/student-sim/internal/models"
	"github.com/tatianab/student-sim/internal/narrator"
)

const (
	maxQuarters = 40
	// Upper bound on events settled in a row, chains included.
	maxEvents = 32
)

// Plays one run headless with a simple policy and prints how it went.
// SIM_SEED makes the run reproducible.
func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	tables, err := content.Default()
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	store := engine.New(tables, engine.WithSeed(seed), engine.WithLogger(quiet))
	store.Subscribe(func(ev engine.Event) {
		switch e := ev.(type) {
		case engine.EventTriggered:
			fmt.Printf("  event: %s\n", e.EventID)
		case engine.OptionResolved:
			fmt.Printf("  chose: %s\n", e.Label)
		case engine.VisaChanged:
			fmt.Printf("  visa: %s -> %s\n", e.From, e.To)
		case engine.EndingReached:
			fmt.Printf("ENDING: %s (%s)\n", e.Ending, e.Reason)
		}
	})

	profile := models.Profile{
		Name:       "Sim",
		Degree:     models.DegreeMaster,
		Major:      "engineering_it",
		Background: models.BackgroundMiddle,
	}
	if !store.StartGame(profile) {
		log.Fatalf("Failed to start game")
	}
	fmt.Printf("--- Seed %d: %s, %s in %s ---\n", seed, profile.Name, profile.Degree, profile.Major)

	for q := 0; q < maxQuarters; q++ {
		snap := store.Snapshot()
		if snap.GameOver {
			break
		}
		fmt.Printf("Year %d Q%d: money=$%d sanity=%d wam=%d pr=%d visa=%s(%dd)\n",
			snap.Clock.Year, snap.Clock.Quarter, snap.Stats.Money, snap.Stats.Sanity,
			snap.Stats.WAM, snap.Stats.PRScore, snap.Visa.Subclass, snap.Visa.ExpiryDays)

		playQuarter(store)
		settleEvents(store)
		store.AdvanceQuarter()
		settleEvents(store)
	}

	final := store.Snapshot()
	if !final.GameOver {
		fmt.Printf("Run still going after %d quarters.\n", maxQuarters)
		return
	}
	fmt.Printf("Finished after %d quarters: %s\n", final.Clock.TotalQuarters, final.GameOverReason)

	if !cfg.NarratorEnabled() {
		return
	}
	n, err := narrator.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, tables, quiet)
	if err != nil {
		log.Fatalf("Failed to create narrator: %v", err)
	}
	defer n.Close()
	epilogue, err := n.Epilogue(ctx, final)
	if err != nil {
		fmt.Printf("Epilogue failed: %v\n", err)
		return
	}
	fmt.Printf("\n%s\n", epilogue)
}

// playQuarter spends action points until nothing more can be done.
func playQuarter(store *engine.Store) {
	for range 20 {
		snap := store.Snapshot()
		if snap.GameOver || snap.CurrentEvent != nil || snap.Clock.ActionPoints == 0 {
			return
		}
		if !store.Perform(pickAction(snap)) && !store.Perform("rest") {
			return
		}
		settleEvents(store)
	}
}

func pickAction(snap *models.Snapshot) string {
	s := snap.Stats
	switch {
	case s.Sanity < 35:
		return "rest"
	case s.Money < 2000:
		return "part_time"
	case snap.Phase == models.PhaseStudent && s.WAM < 75:
		return "study"
	case snap.Phase == models.PhaseStudent:
		return "tutorial"
	case s.English < 80:
		return "pte_study"
	default:
		return "job_hunt"
	}
}

// settleEvents resolves pending events by taking the first option the
// player can pay for.
func settleEvents(store *engine.Store) {
	for range maxEvents {
		snap := store.Snapshot()
		if snap.CurrentEvent == nil || snap.GameOver {
			return
		}
		resolved := false
		for i := range snap.CurrentEvent.Options {
			if store.ResolveOptionIndex(i) {
				resolved = true
				break
			}
		}
		if !resolved {
			store.CloseEvent()
		}
	}
}
