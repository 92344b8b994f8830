package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/quickeats/platform/cmd/customerservice"
	"github.com/quickeats/platform/cmd/deliveryservice"
	"github.com/quickeats/platform/cmd/orderservice"
	"github.com/quickeats/platform/cmd/restaurantservice"
	"github.com/quickeats/platform/internal/cli"
)

func main() {
	// a missing .env is fine; the config layer has its own defaults
	_ = godotenv.Load()

	if len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		cli.PrintUsage(os.Stdout)
		os.Exit(0)
	}

	mode, svcArgs, err := cli.ParseMode(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cli.PrintUsage(os.Stderr)
		os.Exit(2)
	}
	if mode == "" {
		cli.PrintUsage(os.Stderr)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fs, port, workers := cli.ServiceFlags(mode)
	if err := fs.Parse(svcArgs); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	if *port < 0 || *port > 65535 {
		fmt.Fprintln(os.Stderr, "Error: --port must be between 0 and 65535")
		fs.Usage()
		os.Exit(2)
	}
	if mode != cli.ModeRestaurant && *workers <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --workers must be > 0")
		fs.Usage()
		os.Exit(2)
	}

	switch mode {
	case cli.ModeCustomer:
		err = customerservice.Run(ctx, *port, *workers)
	case cli.ModeRestaurant:
		err = restaurantservice.Run(ctx, *port)
	case cli.ModeOrder:
		err = orderservice.Run(ctx, *port, *workers)
	case cli.ModeDelivery:
		err = deliveryservice.Run(ctx, *port, *workers)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
