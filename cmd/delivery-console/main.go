package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"agrimarket-delivery/internal/config"
	"agrimarket-delivery/internal/console"
	"agrimarket-delivery/internal/domain"
	"agrimarket-delivery/internal/gateway/marketplace"
	"agrimarket-delivery/internal/logx"
	"agrimarket-delivery/internal/metrics"
)

const usage = `usage: delivery-console [flags] <command>

commands:
  open <order-id>                     resolve and show the delivery of an order
  assign <order-id> <driver-id>       assign a roster driver (--eta, --notes)
  status <order-id> <status>          move the delivery to status (--notes)
  drivers                             list the driver roster
`

func main() {
	var (
		eta   string
		notes string
	)
	// registered before config.Load parses the command line
	pflag.StringVar(&eta, "eta", "", "estimated delivery time, RFC3339")
	pflag.StringVar(&notes, "notes", "", "seller notes for assign, delivery notes for status")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, pflag.Args(), eta, notes); err != nil {
		if errors.Is(err, errUsage) {
			pflag.Usage()
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(ctx context.Context, cfg *config.Config, args []string, eta, notes string) error {
	if len(args) == 0 {
		return errUsage
	}

	level, _ := logx.ParseLevel(cfg.LogLevel)
	logger := logx.NewJSON(os.Stderr, level)

	gw := cfg.Gateway
	client, err := marketplace.NewClient(gw.BaseURL, &http.Client{}, gw.RequestTimeout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	api := marketplace.NewRetryingClient(client, logger, metrics.NewGatewayRetriesTotal(), marketplace.RetryConfig{
		MaxAttempts: gw.MaxAttempts,
		BaseDelay:   gw.BaseDelay,
		MaxDelay:    gw.MaxDelay,
	})

	c := console.New(api, console.NewWriterNotifier(os.Stderr), logger, console.Config{
		RequestTimeout:  gw.RequestTimeout,
		ResolveDelay:    gw.ResolveDelay,
		MaxDelay:        gw.MaxDelay,
		ResolveAttempts: gw.ResolveAttempts,
	})

	switch cmd := args[0]; cmd {
	case "drivers":
		drivers, err := api.Drivers(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		for _, d := range drivers {
			fmt.Printf("%s\t%s\t%s\t%s %s\n", d.ID, d.Name, d.Phone, d.VehicleType, d.VehiclePlate)
		}
		return nil

	case "open":
		if len(args) != 2 {
			return errUsage
		}
		return openAndRender(ctx, c, args[1])

	case "assign":
		if len(args) != 3 {
			return errUsage
		}
		if err := openOnly(ctx, c, args[1]); err != nil {
			return err
		}
		if err := c.SelectDriver(args[2]); err != nil {
			return err
		}
		var at *time.Time
		if eta != "" {
			t, err := time.Parse(time.RFC3339, eta)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[error] invalid --eta %q: want RFC3339\n", eta)
				return err
			}
			at = &t
		}
		c.SetSchedule(at, notes)
		if err := c.Assign(ctx); err != nil {
			return err
		}
		return console.Render(os.Stdout, c.View())

	case "status":
		if len(args) != 3 {
			return errUsage
		}
		status, err := domain.ParseDeliveryStatus(args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "[error] %v\n", err)
			return err
		}
		if err := openOnly(ctx, c, args[1]); err != nil {
			return err
		}
		if err := c.Transition(ctx, status, notes); err != nil {
			return err
		}
		return console.Render(os.Stdout, c.View())

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		return errUsage
	}
}

func openOnly(ctx context.Context, c *console.Console, orderID string) error {
	if _, err := c.Open(ctx, orderID); err != nil {
		return err
	}
	return nil
}

func openAndRender(ctx context.Context, c *console.Console, orderID string) error {
	err := openOnly(ctx, c, orderID)
	if rerr := console.Render(os.Stdout, c.View()); rerr != nil && err == nil {
		err = rerr
	}
	return err
}
