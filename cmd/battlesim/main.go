// Package main provides the battle simulator binary: it loads content,
// builds an engine, and plays AI-vs-AI encounters round by round, optionally
// persisting a report per battle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/halcyon-games/menagerie/internal/config"
	"github.com/halcyon-games/menagerie/internal/game/ability"
	"github.com/halcyon-games/menagerie/internal/game/ai"
	"github.com/halcyon-games/menagerie/internal/game/battle"
	"github.com/halcyon-games/menagerie/internal/game/dice"
	"github.com/halcyon-games/menagerie/internal/game/item"
	"github.com/halcyon-games/menagerie/internal/game/species"
	"github.com/halcyon-games/menagerie/internal/game/status"
	"github.com/halcyon-games/menagerie/internal/observability"
	"github.com/halcyon-games/menagerie/internal/scripting"
	"github.com/halcyon-games/menagerie/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	squadSpecies := flag.String("squad", "", "comma-separated species ids for the player squad; empty = pick from the registry")
	enemySpecies := flag.String("enemies", "", "comma-separated species ids for the enemy side; empty = pick from the registry")
	background := flag.String("background", "meadow", "background key recorded on each battle")
	verbose := flag.Bool("verbose", false, "print the per-action narration of every battle")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)

	contentStart := time.Now()
	abilities, err := ability.LoadDirectory(cfg.Content.AbilityDir())
	if err != nil {
		logger.Fatal("loading abilities", zap.Error(err))
	}
	statuses, err := status.LoadDirectory(cfg.Content.StatusDir())
	if err != nil {
		logger.Fatal("loading statuses", zap.Error(err))
	}
	speciesReg, err := species.LoadDirectory(cfg.Content.SpeciesDir())
	if err != nil {
		logger.Fatal("loading species", zap.Error(err))
	}
	items, err := item.LoadDirectory(cfg.Content.ItemDir())
	if err != nil {
		logger.Fatal("loading items", zap.Error(err))
	}

	scripts := scripting.NewManager(src, logger)
	defer scripts.Close()
	if err := scripts.Load(item.ScriptCollection, cfg.Content.ItemScriptDir(), cfg.Content.ScriptInstructionLimit); err != nil {
		logger.Fatal("loading item scripts", zap.Error(err))
	}

	logger.Info("content loaded",
		zap.Int("abilities", len(abilities.All())),
		zap.Int("species", len(speciesReg.All())),
		zap.Int("items", len(items.All())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	resolver := item.NewResolver(items, scripts, logger)
	engine := battle.NewEngine(abilities, statuses, speciesReg, resolver, src, logger)
	policy := ai.New(abilities, src)

	var reports *postgres.BattleReportRepository
	if cfg.Simulator.PersistReports {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		reports = postgres.NewBattleReportRepository(pool.DB())
	}

	squadIDs := pickSpecies(speciesReg, *squadSpecies, cfg.Simulator.SquadSize)
	enemyIDs := pickSpecies(speciesReg, *enemySpecies, cfg.Simulator.EnemyCount)
	if len(squadIDs) == 0 || len(enemyIDs) == 0 {
		logger.Fatal("no species available for squads")
	}

	sim := &simulator{
		engine:    engine,
		policy:    policy,
		maxRounds: cfg.Simulator.MaxRounds,
	}

	outcomes := make(map[string]int)
	for i := 1; i <= cfg.Simulator.Battles; i++ {
		squad := battle.SpawnWave(speciesReg, squadIDs, cfg.Simulator.BaseLevel, i)
		enemies := battle.SpawnWave(speciesReg, enemyIDs, cfg.Simulator.BaseLevel, i)
		b := battle.New(squad, enemies, *background)

		report := sim.run(b, enemyIDs)
		outcomes[report.Outcome]++

		logger.Info("battle finished",
			zap.Int("battle", i),
			zap.String("outcome", report.Outcome),
			zap.Int("rounds", report.Rounds),
			zap.Int("experience", report.Experience),
			zap.Int("gold", report.Gold),
			zap.Int("captures", report.Captures),
		)
		if *verbose {
			for _, line := range report.Log {
				fmt.Fprintln(os.Stdout, line)
			}
		}

		if reports != nil {
			if _, err := reports.Insert(ctx, report); err != nil {
				logger.Error("persisting battle report", zap.Error(err))
			}
		}
	}

	var summary []string
	for _, outcome := range sortedKeys(outcomes) {
		summary = append(summary, fmt.Sprintf("%s=%d", outcome, outcomes[outcome]))
	}
	logger.Info("simulation complete",
		zap.Int("battles", cfg.Simulator.Battles),
		zap.String("outcomes", strings.Join(summary, " ")),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// simulator plays one battle to completion with both sides AI-driven.
type simulator struct {
	engine    *battle.Engine
	policy    *ai.Policy
	maxRounds int
}

// run drives the battle loop: per round, each combatant in turn order gets a
// status tick, an end check, and an action; cooldowns tick at round end.
func (s *simulator) run(b battle.Battle, enemySpeciesIDs []string) *postgres.BattleReport {
	var lines []string
	initialEnemies := len(b.EnemySquad)

	for b.State == battle.StateOngoing && b.Round <= s.maxRounds {
		for _, id := range b.TurnOrder {
			c := b.Combatant(id)
			if c == nil || c.IsDead() {
				continue
			}

			var ticks []battle.StatusTick
			b, ticks = s.engine.ProcessStatusEffects(b, id)
			for _, tick := range ticks {
				if tick.Message != "" {
					lines = append(lines, tick.Message)
				}
			}
			if state := s.engine.CheckBattleEnd(b); state != battle.StateOngoing {
				b.State = state
				break
			}

			c = b.Combatant(id)
			if c == nil || c.IsDead() {
				continue
			}
			if s.engine.IsSleeping(*c) {
				lines = append(lines, fmt.Sprintf("%s is fast asleep.", c.Name))
				continue
			}

			var action battle.Action
			if b.IsEnemy(id) {
				action = s.policy.EnemyAction(b, id)
			} else {
				action = s.policy.SquadMonsterAction(b, id)
			}
			res := s.engine.ExecuteAction(b, action)
			b = res.Battle
			lines = append(lines, res.Message)

			if state := s.engine.CheckBattleEnd(b); state != battle.StateOngoing {
				b.State = state
				break
			}
		}
		if b.State != battle.StateOngoing {
			break
		}
		b = s.engine.AdvanceRound(b)
	}

	report := &postgres.BattleReport{
		BackgroundKey: b.BackgroundKey,
		Outcome:       b.State.String(),
		Rounds:        b.Round,
		SquadSize:     len(b.PlayerSquad),
		EnemyCount:    initialEnemies,
		Captures:      capturedCount(b, initialEnemies),
		Log:           lines,
	}
	if b.State == battle.StateVictory {
		rewards := s.engine.CalculateBattleRewards(b)
		report.Experience = rewards.Experience
		report.Gold = rewards.Gold
		for _, drop := range s.engine.GenerateBattleLoot(enemySpeciesIDs) {
			report.Log = append(report.Log,
				fmt.Sprintf("Found %dx %s.", drop.Quantity, drop.ItemDefID))
		}
	}
	return report
}

// capturedCount infers captures from squad shrinkage: enemies only leave the
// squad through capture removal.
func capturedCount(b battle.Battle, initialEnemies int) int {
	return initialEnemies - len(b.EnemySquad)
}

// pickSpecies resolves a comma-separated species list, or takes the first n
// registry entries in sorted id order when the list is empty.
func pickSpecies(reg *species.Registry, csv string, n int) []string {
	if csv != "" {
		var ids []string
		for _, id := range strings.Split(csv, ",") {
			id = strings.TrimSpace(id)
			if _, ok := reg.Get(id); ok {
				ids = append(ids, id)
			}
		}
		return ids
	}

	var ids []string
	for _, tmpl := range reg.All() {
		ids = append(ids, tmpl.ID)
	}
	sort.Strings(ids)
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
