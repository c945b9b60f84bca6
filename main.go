package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rm-hull/godx"
	"github.com/spf13/cobra"

	"github.com/rm-hull/safpis/cmd"
	"github.com/rm-hull/safpis/internal/models"
)

var (
	// Version is set at build time.
	Version = "dev"
	// Commit is set at build time.
	Commit = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts cmd.Options

	rootCmd := &cobra.Command{
		Use:   "safpis",
		Short: "South Australian fuel pricing information, from the command line",
		Long: `safpis queries the South Australian Fuel Pricing Information Scheme for
fuel brands, fuel types, service stations and their current prices.

Upstream responses are cached: reference data for a day, prices for a minute.
Set SAFPIS_SUBSCRIBER_TOKEN (or put it in .env) before running any query.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "Log format (json, console)")

	rootCmd.AddCommand(lookupCmd("site", "Look up a service station", cmd.Site, &opts))
	rootCmd.AddCommand(lookupCmd("brand", "Look up a fuel brand", cmd.Brand, &opts))
	rootCmd.AddCommand(lookupCmd("fuel", "Look up a fuel type", cmd.Fuel, &opts))
	rootCmd.AddCommand(priceCmd(&opts))
	rootCmd.AddCommand(nearestCmd(&opts))
	rootCmd.AddCommand(cheapestCmd(&opts))
	rootCmd.AddCommand(openCmd(&opts))
	rootCmd.AddCommand(importCmd(&opts))
	rootCmd.AddCommand(apiServerCmd(&opts))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if models.KindOf(err) == models.KindUsage {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type lookupFunc func(context.Context, cmd.Options, cmd.LookupKey, io.Writer) error

func lookupCmd(name, short string, run lookupFunc, opts *cmd.Options) *cobra.Command {
	var id int
	var byName string

	c := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			key, err := cmd.NewLookupKey(c.Flags().Changed("id"), id, byName)
			if err != nil {
				return err
			}
			return run(c.Context(), *opts, key, c.OutOrStdout())
		},
	}
	c.Flags().IntVar(&id, "id", 0, "Look up by id")
	c.Flags().StringVar(&byName, "name", "", "Look up by exact name")
	return c
}

func priceCmd(opts *cmd.Options) *cobra.Command {
	var siteID, fuelID int

	c := &cobra.Command{
		Use:   "price",
		Short: "Show the current price of a fuel at a station",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			var site, fuel *int
			if c.Flags().Changed("site-id") {
				site = &siteID
			}
			if c.Flags().Changed("fuel-id") {
				fuel = &fuelID
			}
			return cmd.Price(c.Context(), *opts, site, fuel, c.OutOrStdout())
		},
	}
	c.Flags().IntVar(&siteID, "site-id", 0, "Station id")
	c.Flags().IntVar(&fuelID, "fuel-id", 0, "Fuel type id")
	return c
}

func nearestCmd(opts *cmd.Options) *cobra.Command {
	var lat, lng float64
	var limit int

	c := &cobra.Command{
		Use:   "nearest",
		Short: "List the stations closest to a point",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Nearest(c.Context(), *opts, lat, lng, limit, c.OutOrStdout())
		},
	}
	c.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	c.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	c.Flags().IntVar(&limit, "limit", 5, "Maximum number of stations (0 for all)")
	_ = c.MarkFlagRequired("lat")
	_ = c.MarkFlagRequired("lng")
	return c
}

func cheapestCmd(opts *cmd.Options) *cobra.Command {
	var fuel string

	c := &cobra.Command{
		Use:   "cheapest",
		Short: "List current prices for a fuel, cheapest first",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Cheapest(c.Context(), *opts, fuel, c.OutOrStdout())
		},
	}
	c.Flags().StringVar(&fuel, "fuel", "", "Fuel type name, e.g. \"Unleaded\"")
	return c
}

func openCmd(opts *cmd.Options) *cobra.Command {
	var at string

	c := &cobra.Command{
		Use:   "open",
		Short: "List the stations open at a given time (default now)",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Open(c.Context(), *opts, at, c.OutOrStdout())
		},
	}
	c.Flags().StringVar(&at, "at", "", "RFC 3339 timestamp")
	return c
}

func importCmd(opts *cmd.Options) *cobra.Command {
	var dbPath string

	c := &cobra.Command{
		Use:   "import",
		Short: "Record the current stations and prices in the history database",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Import(c.Context(), *opts, dbPath)
		},
	}
	c.Flags().StringVar(&dbPath, "db", "data/fuel_prices.db", "Path to the history database")
	return c
}

func apiServerCmd(opts *cmd.Options) *cobra.Command {
	var dbPath string
	var port int
	var debug bool

	c := &cobra.Command{
		Use:   "api-server",
		Short: "Serve the fuel price API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.ApiServer(c.Context(), *opts, dbPath, port, debug)
		},
	}
	c.Flags().StringVar(&dbPath, "db", "data/fuel_prices.db", "Path to the history database")
	c.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	c.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")
	return c
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(c *cobra.Command, args []string) {
			fmt.Fprintf(c.OutOrStdout(), "safpis %s (%s)\n", Version, Commit)
			godx.GitVersion()
		},
	}
}
