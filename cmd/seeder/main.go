package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/padelops/courtledger/internal/database"
	"github.com/padelops/courtledger/internal/jobs"
	"github.com/padelops/courtledger/internal/league"
	"github.com/padelops/courtledger/internal/ledger"
	"github.com/padelops/courtledger/internal/metrics"
	"github.com/padelops/courtledger/internal/processor"
	"github.com/padelops/courtledger/internal/rating"
	"github.com/padelops/courtledger/internal/stats"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "courtledger.db",
		"MIGRATIONS_DIR":    "./migrations",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	leagueStore := league.New(db)
	ledgerStore := ledger.New(db)
	statsStore := stats.New(db)
	jobStore := jobs.NewStore(db)

	players := []league.Player{
		{ID: "player-1", Name: "Seeder Player A"},
		{ID: "player-2", Name: "Seeder Player B"},
		{ID: "player-3", Name: "Seeder Player C"},
		{ID: "player-4", Name: "Seeder Player D"},
		{ID: "player-5", Name: "Seeder Player E"},
		{ID: "player-6", Name: "Seeder Player F"},
		{ID: "player-tbd", Name: "TBD", IsPlaceholder: true},
	}
	for _, p := range players {
		if err := leagueStore.UpsertPlayer(p); err != nil {
			log.Fatalf("Failed to upsert player %s: %s", p.Name, err)
		}
	}
	log.Info("Ensured dummy players exist.", "count", len(players))

	lg, err := leagueStore.CreateLeague("Seeder League")
	if err != nil {
		log.Fatalf("Failed to create league: %s", err)
	}
	season, err := leagueStore.CreateSeason(lg.ID, "Seeder Season", rating.ScoringPoints, 3, 1)
	if err != nil {
		log.Fatalf("Failed to create season: %s", err)
	}
	log.Info("Created demo league and season", "leagueID", lg.ID, "seasonID", season.ID)

	const numSessions = 8
	const matchesPerSession = 4
	startTime := time.Now()

	for i := 0; i < numSessions; i++ {
		date := time.Now().AddDate(0, 0, -7*(numSessions-i)).Format("2006-01-02")
		session, err := ledgerStore.GetOrCreateActiveSession(lg.ID, season.ID, date)
		if err != nil {
			log.Fatalf("Failed to create session for %s: %s", date, err)
		}
		for j := 0; j < matchesPerSession; j++ {
			perm := rand.Perm(6)
			nm := ledger.NewMatch{
				SessionID: session.ID,
				Team1:     [2]string{players[perm[0]].ID, players[perm[1]].ID},
				Team2:     [2]string{players[perm[2]].ID, players[perm[3]].ID},
				Score1:    rand.Intn(7),
				Score2:    rand.Intn(7),
			}
			nm.RankedIntent = true
			if _, err := ledgerStore.CreateMatch(nm); err != nil {
				log.Fatalf("Failed to create match: %s", err)
			}
		}
		if _, err := ledgerStore.LockInSession(session.ID, "seeder"); err != nil {
			log.Fatalf("Failed to lock in session %s: %s", session.ID, err)
		}
		log.Info("Seeded session", "date", date, "matches", matchesPerSession)
	}

	// Recompute synchronously so the seeded rankings are queryable right away.
	proc := processor.New(leagueStore, ledgerStore, statsStore, jobStore, metrics.NewMock())
	for _, req := range []struct {
		calcType jobs.CalcType
		leagueID string
	}{
		{jobs.CalcGlobal, ""},
		{jobs.CalcLeague, lg.ID},
	} {
		jobID, err := jobStore.Enqueue(req.calcType, req.leagueID)
		if err != nil {
			log.Fatalf("Failed to enqueue %s job: %s", req.calcType, err)
		}
		job, err := jobStore.ClaimNextPending()
		if err != nil || job == nil {
			log.Fatalf("Failed to claim job %d: %v", jobID, err)
		}
		if err := proc.Recalculate(job); err != nil {
			if markErr := jobStore.MarkFailed(job.ID, err.Error()); markErr != nil {
				log.Error("Failed to record job failure", "error", markErr)
			}
			log.Fatalf("Recalculation failed: %s", err)
		}
		if err := jobStore.MarkCompleted(job.ID); err != nil {
			log.Fatalf("Failed to mark job %d complete: %s", job.ID, err)
		}
	}

	rankings, err := statsStore.GetRankings(season.ID, "")
	if err != nil {
		log.Fatalf("Failed to read back rankings: %s", err)
	}
	for _, entry := range rankings {
		fmt.Printf("%2d. %-16s pts=%.1f games=%d elo=%.0f\n", entry.SeasonRank, entry.Name, entry.Points, entry.Games, entry.ELO)
	}

	log.Info("Seeding finished.", "duration", time.Since(startTime))
}
