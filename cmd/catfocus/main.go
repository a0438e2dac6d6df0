package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/benjamonnguyen/catfocus"
	"github.com/benjamonnguyen/catfocus/catalog"
	"github.com/benjamonnguyen/catfocus/cmd/catfocus/models"
	"github.com/benjamonnguyen/catfocus/discordgo"
	"github.com/benjamonnguyen/catfocus/sqlite"
	dg "github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	RepoURL = "https://github.com/benjamonnguyen/catfocus"
	Version = "0.1.0"
)

type flags struct {
	focus, brk  time.Duration
	dbURL       string
	catalogPath string
	seed        uint64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "catfocus",
		Short:        "A focus timer with a virtual cat and collectible cards",
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := catfocus.LoadConfig()
			if err != nil {
				return err
			}
			cfg = applyFlags(cmd, cfg, f)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, f.seed, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&f.focus, "focus", catfocus.DefaultFocus, "focus session duration")
	cmd.Flags().DurationVar(&f.brk, "break", catfocus.DefaultBreak, "break session duration")
	cmd.Flags().StringVar(&f.dbURL, "db", catfocus.DefaultDatabaseURL, "sqlite database url")
	cmd.Flags().StringVar(&f.catalogPath, "catalog", "", "card catalog yaml (default: embedded)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for reward draws (0: time based)")
	return cmd
}

// applyFlags overrides config with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg catfocus.Config, f flags) catfocus.Config {
	if cmd.Flags().Changed("focus") {
		cfg.Focus = f.focus
	}
	if cmd.Flags().Changed("break") {
		cfg.Break = f.brk
	}
	if cmd.Flags().Changed("db") {
		cfg.DatabaseURL = f.dbURL
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogPath = f.catalogPath
	}
	return cfg
}

func run(ctx context.Context, cfg catfocus.Config, seed uint64, in io.Reader, out io.Writer) error {
	// logger
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(lvl)
	log.SetReportCaller(lvl == log.DebugLevel)
	topCtx, topCtxC := context.WithCancel(ctx)
	defer topCtxC()
	initTimeout, initTimeoutC := context.WithTimeout(topCtx, 10*time.Second)
	defer initTimeoutC()

	// catalog
	cards, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return err
	}
	panicif(cards.RequireTiers(weightedTiers(DefaultRarityWeights)...))
	log.Info("loaded catalog", "cards", cards.Len())

	// db
	log.Info("opening db", "url", cfg.DatabaseURL)
	db, err := sqlite.Open(initTimeout, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed database open: %w", err)
	}
	defer db.Close() //nolint

	tx, dbGetter := txStdLib.NewTransactor(
		db,
		txStdLib.NestedTransactionsSavepoints,
	)

	collection := NewCollectionProvider(sqlite.NewCardRepo(dbGetter, *log.Default()), tx, *log.Default())
	panicif(collection.RestoreCache(initTimeout))
	eventLog := NewEventLog(sqlite.NewEventRepo(dbGetter, *log.Default()), tx, *log.Default())

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rewards := NewRewardEngine(
		cards,
		collection,
		rand.New(rand.NewPCG(seed, seed>>1)),
		cfg.DrawProbability,
		*log.Default(),
	)

	notifier, closeNotifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}
	defer closeNotifier()

	// focus loop
	clock := catfocus.SystemClock{}
	loop := NewFocusLoop(
		topCtx,
		models.SessionSettings{Focus: cfg.Focus, Break: cfg.Break},
		models.NewLedger(cfg.StartingTreats, cfg.StartingToys),
		rewards,
		eventLog,
		notifier,
		clock,
		*log.Default(),
	)
	loop.OnSessionCompleted(func(_ context.Context, c completion) {
		fmt.Fprintln(out, completionMessage(c))
	})
	loop.Start()

	handler := NewCommandHandler(loop, collection, eventLog, clock, out)
	fmt.Fprintf(out, "catfocus v%s. Type %q for commands.\n", Version, catfocus.HelpCommand)

	// init done
	initTimeoutC()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	// graceful shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer signal.Stop(sc)
	func() {
		for {
			select {
			case <-sc:
				return
			case <-topCtx.Done():
				return
			case line, ok := <-lines:
				if !ok {
					return
				}
				quit, err := handler.Execute(topCtx, line)
				if err != nil {
					if !errors.Is(err, catfocus.ErrUnknownCommand) {
						log.Error("command failed", "line", line, "err", err)
					}
					fmt.Fprintln(out, err)
				}
				if quit {
					return
				}
			}
		}
	}()

	log.Info("terminating catfocus")
	topCtxC()
	shutdownTimeout, shutdownTimeoutC := context.WithTimeout(context.Background(), 10*time.Second)
	go func() {
		if err := loop.Shutdown(); err != nil {
			log.Error(err)
		}
		shutdownTimeoutC()
	}()
	<-shutdownTimeout.Done()
	if shutdownTimeout.Err() != context.Canceled {
		log.Error("failed to shut down gracefully", "err", shutdownTimeout.Err())
	}
	return nil
}

// newNotifier returns a Discord notifier when a token is configured.
func newNotifier(cfg catfocus.Config) (Notifier, func(), error) {
	if cfg.DiscordToken == "" {
		return noopNotifier{}, func() {}, nil
	}
	cl, err := dg.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create discord client: %w", err)
	}
	cl.ShouldRetryOnRateLimit = false
	cl.Client = &http.Client{Timeout: 20 * time.Second}
	cl.UserAgent = fmt.Sprintf("catfocus (%s, v%s)", RepoURL, Version)
	log.Info("discord notifications enabled", "channelID", cfg.DiscordChannel)

	closeFn := func() {
		if err := cl.Close(); err != nil {
			log.Error(err)
		}
	}
	return discordgo.NewNotifier(cl, cfg.DiscordChannel, *log.Default()), closeFn, nil
}

func completionMessage(c completion) string {
	msg := fmt.Sprintf("\n%s session complete!", c.Event.SessionType)
	if c.Event.SessionType == catfocus.FocusSession {
		msg += fmt.Sprintf(" +%d treats, +%d toy.", models.FocusTreatReward, models.FocusToyReward)
	}
	if c.LevelUp {
		msg += " Level up!"
	}
	if c.Reward != nil {
		msg += fmt.Sprintf("\nA wild %s %s (%s) appeared! Type %q or %q.",
			c.Reward.Emoji, c.Reward.DisplayName, c.Reward.Rarity, catfocus.CollectCommand, catfocus.LaterCommand)
	}
	return msg
}

func panicif(err error) {
	if err != nil {
		panic(err)
	}
}
