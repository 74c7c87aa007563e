package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"example.com/capacity-planner/console/internal/backend"
	"example.com/capacity-planner/console/internal/config"
	"example.com/capacity-planner/console/internal/planning"
	"example.com/capacity-planner/console/internal/render"
	"example.com/capacity-planner/console/internal/termui"
	"example.com/capacity-planner/console/internal/todo"
)

// cli - общее состояние команд одного запуска.
type cli struct {
	out    io.Writer
	errOut io.Writer

	backendURL string
	raw        bool
	verbose    bool

	logger      *slog.Logger
	cfg         config.ClientConfig
	client      *backend.Client
	coordinator *planning.Coordinator
	state       *planning.State
	report      render.Renderer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, termui.Failure(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "planctl",
		Short:         "Capacity planning console for the terminal",
		Long:          "planctl sends capacity questions to the planning backend and prints the report as markdown.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&c.backendURL, "backend", "", "planning backend base url (overrides BACKEND_BASE_URL)")
	root.PersistentFlags().BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.analyzeCmd(),
		c.recognizeCmd(),
		c.statsCmd(),
		c.trainCmd(),
		c.caseCmd(),
		c.feedbackCmd(),
		c.todoCmd(),
	)

	return root
}

func (c *cli) init() error {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: level}))

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if c.backendURL != "" {
		cfg.Backend.BaseURL = c.backendURL
	}
	c.cfg = cfg

	catalog, err := render.LoadCatalog()
	if err != nil {
		return err
	}

	c.report, err = render.New(render.ModeMarkdown, render.NewMoney(cfg.Render.CurrencySymbol, cfg.Render.Locale), catalog)
	if err != nil {
		return err
	}

	c.client = backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, cfg.Backend.TrainTimeout)
	c.coordinator = planning.NewCoordinator(c.client, nil, cfg.Upload.AllowedExtensions, c.logger)
	c.state = planning.NewState(uuid.New(), progress{w: c.errOut, logger: c.logger})

	c.logger.Debug("backend configured", slog.String("base_url", cfg.Backend.BaseURL))
	return nil
}

func (c *cli) todos() *todo.App {
	return todo.NewApp(c.client, c.logger)
}

// progress выводит подпись запроса в stderr на время его выполнения.
type progress struct {
	w      io.Writer
	logger *slog.Logger
}

func (p progress) Show(label string) {
	fmt.Fprintln(p.w, termui.Pending(label))
}

func (p progress) Hide() {
	p.logger.Debug("request settled")
}
