// Command stream-preview loads a live stream link the way the stream card does and
// prints each loading state as it is published.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"nostr-widgets/internal/cache"
	"nostr-widgets/internal/config"
	"nostr-widgets/internal/nips"
	"nostr-widgets/internal/people"
	"nostr-widgets/internal/preview"
	"nostr-widgets/internal/relay"
	"nostr-widgets/internal/streams"
	"nostr-widgets/internal/types"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

type options struct {
	configPath string
	relays     []string
	user       string
	timeout    time.Duration
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "stream-preview [url]",
		Short: "Load a live stream link and print its preview states.",
		Long: heredoc.Doc(`
			Resolves the naddr at the end of a stream URL, fetches the live event
			and then the profiles of its host and participants, printing the card
			after every step.

			Examples:
			  stream-preview https://zap.stream/naddr1...
			  stream-preview --relay wss://nos.lol --user npub1... naddr1...
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts, args[0])
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default is $NOSTR_WIDGETS_CONFIG or config/widgets.yaml)")
	cmd.Flags().StringSliceVarP(&opts.relays, "relay", "r", nil, "relay to query, repeatable (overrides config)")
	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "pubkey or npub shown as host instead of the stream's own")
	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", 10*time.Second, "overall time limit")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(newDecodeCmd())
	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [url|naddr]",
		Short: "Print the address pointer inside a stream link.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ptr, err := preview.ParseNaddr(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "kind:       %d\n", ptr.Kind)
			fmt.Fprintf(out, "pubkey:     %s\n", ptr.Pubkey)
			fmt.Fprintf(out, "identifier: %s\n", ptr.Identifier)
			if len(ptr.Relays) > 0 {
				fmt.Fprintf(out, "relays:     %s\n", strings.Join(ptr.Relays, ", "))
			}
			return nil
		},
	}
}

func run(ctx context.Context, out io.Writer, opts *options, rawURL string) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	relays := cfg.Relays.Default
	if len(opts.relays) > 0 {
		relays = relay.NormalizeURLs(opts.relays)
	}

	caches := cache.New("", cache.DefaultCacheConfig())
	defer caches.Close()
	pool := relay.NewPool()
	defer pool.Close()
	client := relay.NewClient(pool, relays, cfg.Fetch.RelayTimeout)

	peopleSvc := people.NewService(client, caches.Profiles, people.DefaultOptions())
	loader := &preview.Loader{
		Streams: streams.NewService(client, caches.Streams),
		People:  peopleSvc,
		AppID:   "cli",
	}

	var user *types.Profile
	if opts.user != "" {
		pk, err := nips.DecodePubkey(opts.user)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		if user, err = peopleSvc.Get(ctx, pk); err != nil || user == nil {
			user = &types.Profile{Pubkey: pk}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	return loader.Run(ctx, rawURL, user, func(s preview.State) {
		printCard(out, preview.NewCard(s, time.Now()))
	})
}

func printCard(out io.Writer, c preview.Card) {
	fmt.Fprintf(out, "[%s]\n", c.State)
	if c.Title != "" {
		fmt.Fprintf(out, "  title:   %s\n", c.Title)
	}
	if c.StatusText != "" {
		fmt.Fprintf(out, "  status:  %s (%s)\n", c.StatusText, c.Status)
	}
	if c.HostName != "" {
		host := c.HostName
		if c.HostVerified {
			host += " <" + c.HostNip05 + ">"
		}
		fmt.Fprintf(out, "  host:    %s\n", host)
	}
	if c.Participants > 0 {
		fmt.Fprintf(out, "  viewers: %d\n", c.Participants)
	}
	if c.Href != "" {
		fmt.Fprintf(out, "  link:    %s\n", c.Href)
	}
}
