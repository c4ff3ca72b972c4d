// Command jump61 plays Jump61 on the terminal, or runs AI self-play.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"jump61/internal/archive"
	"jump61/internal/board"
	"jump61/internal/config"
	"jump61/internal/game"
	"jump61/internal/selfplay"
	"jump61/internal/watch"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid environment")
	}

	var red, blue, level string
	flag.IntVar(&cfg.Size, "size", cfg.Size, "board size")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = time based)")
	flag.StringVar(&red, "red", cfg.Red.String(), "red player: human or ai")
	flag.StringVar(&blue, "blue", cfg.Blue.String(), "blue player: human or ai")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite archive path (empty = no archive)")
	flag.StringVar(&cfg.WatchAddr, "watch", cfg.WatchAddr, "spectator listen address (empty = off)")
	flag.IntVar(&cfg.Games, "games", cfg.Games, "number of games to play")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "games played at once")
	flag.StringVar(&level, "log-level", cfg.LogLevel.String(), "log level")
	flag.Parse()

	if cfg.Red, err = game.ParseKind(red); err != nil {
		log.WithError(err).Fatal("bad -red")
	}
	if cfg.Blue, err = game.ParseKind(blue); err != nil {
		log.WithError(err).Fatal("bad -blue")
	}
	if cfg.LogLevel, err = logrus.ParseLevel(level); err != nil {
		log.WithError(err).Fatal("bad -log-level")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("jump61 failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	var observers []game.Observer
	var games watch.Games

	if cfg.DBPath != "" {
		store, err := archive.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		log.WithField("path", cfg.DBPath).Info("archiving games")
		observers = append(observers, archive.NewRecorder(store, log))
		games = store
	}

	if cfg.WatchAddr != "" {
		hub := watch.NewHub(log)
		go hub.Run(ctx)
		observers = append(observers, hub)
		srv := &http.Server{
			Addr:              cfg.WatchAddr,
			Handler:           watch.NewRouter(hub, games, log),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.WithField("addr", cfg.WatchAddr).Info("spectator feed listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("spectator feed stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Debug("spectator feed shutdown")
			}
		}()
	}

	if cfg.Games > 1 {
		return runSelfPlay(ctx, cfg, log, observers)
	}
	return runSingle(ctx, cfg, log, observers)
}

func runSingle(ctx context.Context, cfg *config.Config, log *logrus.Logger, observers []game.Observer) error {
	interactive := cfg.Red == game.Human || cfg.Blue == game.Human
	opts := game.Options{
		Size:      cfg.Size,
		Seed:      cfg.GameSeed(0),
		Red:       cfg.Red,
		Blue:      cfg.Blue,
		Output:    os.Stdout,
		Log:       log,
		Observers: observers,
	}
	if interactive {
		opts.Input = game.NewTextSource(os.Stdin, func(msg string) {
			fmt.Fprintln(os.Stdout, msg)
		})
		opts.Observers = append(opts.Observers, &boardPrinter{out: os.Stdout})
	}

	g, err := game.New(opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s (red) vs %s (blue) on %dx%d\n",
		g.Name(board.PlayerA), g.Name(board.PlayerB), cfg.Size, cfg.Size)
	if interactive {
		fmt.Fprintln(os.Stdout, "Enter moves as \"row col\"; \"quit\" ends the game.")
		fmt.Fprintln(os.Stdout, board.Dump(g.Board()))
	}

	_, err = g.Play(ctx)
	if !interactive {
		fmt.Fprintln(os.Stdout, board.Dump(g.Board()))
	}
	if errors.Is(err, game.ErrAborted) {
		log.WithError(err).Info("game abandoned")
		return nil
	}
	return err
}

func runSelfPlay(ctx context.Context, cfg *config.Config, log *logrus.Logger, observers []game.Observer) error {
	newGame := func(i int) (*game.Game, error) {
		return game.New(game.Options{
			Size:      cfg.Size,
			Seed:      cfg.GameSeed(i),
			Red:       cfg.Red,
			Blue:      cfg.Blue,
			Log:       log,
			Observers: observers,
		})
	}
	stats, err := selfplay.NewPool(log).Run(ctx, cfg.Games, cfg.Workers, newGame)
	fmt.Fprintf(os.Stdout, "games %d  red %d  blue %d  moves %d\n",
		stats.Games, stats.RedWins, stats.BlueWins, stats.Moves)
	if errors.Is(err, game.ErrAborted) {
		return nil
	}
	return err
}

// boardPrinter shows the position after every move of an interactive game.
type boardPrinter struct {
	out io.Writer
}

func (p *boardPrinter) MoveMade(s game.Snapshot) {
	b, err := s.Board()
	if err != nil {
		fmt.Fprintln(p.out, err)
		return
	}
	fmt.Fprintln(p.out, board.Dump(b))
}

func (p *boardPrinter) GameOver(game.Result) {}
