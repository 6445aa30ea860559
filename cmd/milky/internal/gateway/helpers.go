package gateway

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tinyland-inc/milky/cmd/milky/internal"
	"github.com/tinyland-inc/milky/pkg/adapter"
	"github.com/tinyland-inc/milky/pkg/bot"
	"github.com/tinyland-inc/milky/pkg/event"
	"github.com/tinyland-inc/milky/pkg/logger"
)

func gatewayCmd(debug bool, configPath string) error {
	if debug {
		logger.SetLevel(logger.DEBUG)
		fmt.Println("🔍 Debug mode enabled")
	}

	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if len(cfg.Clients) == 0 {
		return fmt.Errorf("no endpoints configured; run 'milky onboard' or set MILKY_BASE_URL")
	}

	a := adapter.New(cfg, adapter.HandlerFunc(logEvent))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("error starting adapter: %w", err)
	}

	fmt.Printf("✓ Connecting to %d endpoint(s)\n", len(cfg.Clients))
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	<-sigChan

	fmt.Println("\nShutting down...")
	a.Shutdown()
	fmt.Println("✓ Stopped")

	return nil
}

// logEvent is the default handler: it only logs. Applications embed the
// adapter and supply their own Handler instead.
func logEvent(_ context.Context, b *bot.Bot, ev event.Event) {
	logger.InfoCF("event", ev.Description(), map[string]any{
		"type":    ev.Type(),
		"self_id": b.SelfID(),
		"session": ev.SessionID(),
	})
}
