package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/shapesim/internal/config"
	"github.com/l1jgo/shapesim/internal/core/ecs"
	"github.com/l1jgo/shapesim/internal/core/event"
	coresys "github.com/l1jgo/shapesim/internal/core/system"
	"github.com/l1jgo/shapesim/internal/data"
	"github.com/l1jgo/shapesim/internal/game"
	"github.com/l1jgo/shapesim/internal/level"
	"github.com/l1jgo/shapesim/internal/persist"
	"github.com/l1jgo/shapesim/internal/scripting"
	"github.com/l1jgo/shapesim/internal/storage"
	"github.com/l1jgo/shapesim/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	cfgPath := "config/shapesim.toml"
	if p := os.Getenv("SHAPESIM_CONFIG"); p != "" {
		cfgPath = p
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "config file")
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profileMode)
	}

	// 3. Open the save store
	printSection("Storage")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer closeStore()
	printOK(fmt.Sprintf("%s store ready (slot %q)", cfg.Storage.Driver, cfg.Storage.Slot))
	fmt.Println()

	// 4. Load data and build factories
	printSection("Data")
	table, err := data.LoadFactoryTable(cfg.Data.Factories)
	if err != nil {
		return fmt.Errorf("load factory table: %w", err)
	}
	factories, err := game.NewFactories(table, ecs.NewEntityPool(), log)
	if err != nil {
		return fmt.Errorf("build factories: %w", err)
	}
	printStat("Factories", table.Count())

	engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	printOK("Lua spawn scripts loaded")
	printStat("Levels", cfg.Simulation.LevelCount)
	fmt.Println()

	builder := &level.Builder{Factories: factories.ByName(), Scripts: engine}
	loader := level.NewFileLoader(cfg.Data.LevelsDir, builder, log)

	// 5. Game and systems
	bus := event.NewBus()
	stats := &game.Stats{}
	stats.Subscribe(bus)
	g := game.New(game.Options{
		LevelCount:      cfg.Simulation.LevelCount,
		DestroyDuration: cfg.Simulation.DestroyDuration,
		ReseedOnLoad:    cfg.Simulation.ReseedOnLoad,
		Seed:            cfg.Simulation.Seed,
		SaveVersion:     cfg.Simulation.SaveVersion,
	}, factories.List(), loader, bus, log)

	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	commands := make(chan system.Command, 64)
	go readCommands(os.Stdin, commands, log)

	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(g, stats, store, cfg.Storage.Slot, commands,
		cfg.Simulation.MaxCommandsPerTick, quit, log))
	runner.Register(system.NewEventSystem(bus))
	runner.Register(system.NewUpdateSystem(g))
	runner.Register(system.NewSpawnSystem(g))
	runner.Register(system.NewCleanupSystem(g))
	if cfg.Simulation.AutosaveTicks > 0 {
		runner.Register(system.NewPersistenceSystem(g, store, cfg.Storage.Slot+"-auto", cfg.Simulation.AutosaveTicks, log))
	}

	if err := g.LoadLevel(cfg.Simulation.StartLevel); err != nil {
		return fmt.Errorf("start level: %w", err)
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("Running")
	printOK(fmt.Sprintf("simulation loop started (tick: %s)", cfg.Simulation.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			if g.Loading() {
				runner.TickPhase(coresys.PhaseInput, cfg.Simulation.TickRate)
				continue
			}
			runner.Tick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return nil
		case <-quitCh:
			log.Info("quit requested", zap.Uint64("ticks", runner.Ticks()))
			return nil
		}
	}
}

// readCommands parses stdin lines into commands until EOF. A closed stdin
// leaves the simulation running; only "quit" or a signal stops it.
func readCommands(in *os.File, out chan<- system.Command, log *zap.Logger) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, err := system.ParseCommand(line)
		if err != nil {
			log.Warn("bad command", zap.String("line", line), zap.Error(err))
			continue
		}
		out <- cmd
	}
	if err := sc.Err(); err != nil {
		log.Error("read commands", zap.Error(err))
	}
}

// openStore returns the configured save store and its cleanup function.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		if err := persist.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		return persist.NewSlotRepo(db), db.Close, nil
	case "sqlite":
		s, err := persist.OpenSQLite(cfg.Storage.Path, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		s, err := storage.NewFileStore(cfg.Storage.Path, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	return zapCfg.Build()
}
