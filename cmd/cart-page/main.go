package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v2"

	"github.com/dmehra2102/cart-checkout/internal/cart/domain"
	carthttp "github.com/dmehra2102/cart-checkout/internal/cart/infrastructure/http"
	"github.com/dmehra2102/cart-checkout/internal/cart/infrastructure/tui"
	"github.com/dmehra2102/cart-checkout/pkg/idempotency"
	"github.com/dmehra2102/cart-checkout/pkg/logging"
	"github.com/dmehra2102/cart-checkout/pkg/shutdown"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "cart-page",
		Usage: "shopping cart page backed by the store's cart API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Usage: "cart API base URL (CART_API_BASE_URL)"},
			&cli.StringFlag{Name: "token", Usage: "bearer token (CART_TOKEN)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (CART_LOG_LEVEL)"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve the cart page over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address (CART_HTTP_ADDR)"},
				},
				Action: serve,
			},
			{
				Name:  "summary",
				Usage: "load the cart and print the order summary",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "promo", Usage: "promo code to apply"},
					&cli.StringFlag{Name: "delivery", Value: string(domain.DeliveryStandard), Usage: "standard or express"},
					&cli.StringFlag{Name: "payment", Value: string(domain.PaymentCard), Usage: "card, upi, netbanking or cod"},
					&cli.BoolFlag{Name: "plain", Usage: "no colours or borders"},
				},
				Action: summary,
			},
			{
				Name:  "tui",
				Usage: "interactive cart page in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-file", Usage: "write logs here instead of discarding them"},
				},
				Action: runTUI,
			},
		},
	}
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := shutdown.WithSignals(c.Context)
	defer cancel()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	if err := a.store.Load(ctx); err != nil {
		log.Warn("initial cart load failed, page starts in error state", "err", err)
	}

	var mws []func(http.Handler) http.Handler
	if a.rdb != nil {
		idem := idempotency.NewStore(a.rdb, cfg.IdempotencyTTL, serviceName)
		mws = append(mws, idem.Middleware(log))
	}
	handler := carthttp.NewHandler(log, a.store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Mount("/", handler.Routes(mws...))
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	stopRelay := a.startRelay(ctx)
	defer stopRelay()

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("cart-page shutdown complete")
	return nil
}

func summary(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := logging.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := shutdown.WithSignals(c.Context)
	defer cancel()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	stopRelay := a.startRelay(ctx)
	defer stopRelay()

	if err := a.store.Load(ctx); err != nil {
		return err
	}
	if err := a.store.SetDeliveryOption(ctx, domain.DeliveryOption(c.String("delivery"))); err != nil {
		return err
	}
	if err := a.store.SetPaymentMethod(ctx, domain.PaymentMethod(c.String("payment"))); err != nil {
		return err
	}
	if code := c.String("promo"); code != "" {
		if err := a.store.ApplyPromo(ctx, code); err != nil {
			return err
		}
	}

	styles := tui.DefaultStyles()
	if c.Bool("plain") {
		styles = tui.PlainStyles()
	}
	snap := a.store.Snapshot()
	fmt.Fprintln(c.App.Writer, tui.RenderItems(styles, snap, -1))
	if !snap.Empty() {
		fmt.Fprintln(c.App.Writer)
		fmt.Fprintln(c.App.Writer, tui.RenderSummary(styles, snap))
	}
	return nil
}

func runTUI(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log := logging.Discard()
	if path := c.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log = logging.NewWithWriter(f, cfg.LogLevel, cfg.LogFormat)
	}

	ctx, cancel := shutdown.WithSignals(c.Context)
	defer cancel()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	stopRelay := a.startRelay(ctx)
	defer stopRelay()

	p := tea.NewProgram(tui.NewModel(ctx, a.store), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
