package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ModeCustomer   = "customer-service"
	ModeRestaurant = "restaurant-service"
	ModeOrder      = "order-service"
	ModeDelivery   = "delivery-service"
)

// isKnownMode checks if the provided mode name is known.
func isKnownMode(s string) (string, bool) {
	switch s {
	case ModeCustomer, "customer":
		return ModeCustomer, true
	case ModeRestaurant, "restaurant":
		return ModeRestaurant, true
	case ModeOrder, "order":
		return ModeOrder, true
	case ModeDelivery, "delivery":
		return ModeDelivery, true
	default:
		return "", false
	}
}

// ParseMode supports:
//
//	--mode=<value>
//	<value> (subcommand shorthand), e.g., `order-service --port=3003`
func ParseMode(args []string) (string, []string, error) {
	var mode string
	var out []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--mode=") {
			mode = strings.TrimPrefix(arg, "--mode=")
			continue
		}

		if mode == "" {
			if m, ok := isKnownMode(arg); ok {
				mode = m
				continue
			}
		}
		out = append(out, arg)
	}

	if mode == "" {
		return "", out, nil
	}

	m, ok := isKnownMode(mode)
	if !ok {
		return "", out, fmt.Errorf("unknown mode %q", mode)
	}

	return m, out, nil
}

// PrintUsage prints the usage information with examples.
func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage:
  ./quickeats --mode=<service> [flags]

Services (modes):
  customer-service      HTTP API for customer accounts; promotes restaurant owners
  restaurant-service    HTTP API for restaurants and menus
  order-service         HTTP API for placing and cancelling orders
  delivery-service      HTTP API and consumers for driver assignment and tracking

Examples:
  ./quickeats --mode=customer-service --port=3001
  ./quickeats --mode=restaurant-service --port=3002
  ./quickeats --mode=order-service --port=3003 --workers=4
  ./quickeats --mode=delivery-service --port=3004 --workers=4`)
}

// ServiceFlags builds the flag set for a service mode. Modes that run
// consumers get a --workers flag; restaurant-service serves HTTP only, so
// it takes just --port.
func ServiceFlags(mode string) (fs *flag.FlagSet, port, workers *int) {
	fs = flag.NewFlagSet(mode, flag.ContinueOnError)
	port = fs.Int("port", 0, "HTTP port for the API (0 uses the configured default)")
	workers = new(int)
	if mode != ModeRestaurant {
		workers = fs.Int("workers", 2, "Consumer worker count per queue (also the prefetch)")
	}
	AttachUsage(fs, mode)
	return fs, port, workers
}

// AttachUsage sets a per-mode usage message on a flag set.
func AttachUsage(fs *flag.FlagSet, mode string) {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ./quickeats --mode=%s [flags]\n", mode)
		fs.PrintDefaults()
	}
}
