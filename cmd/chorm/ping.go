package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Konsultn-Engineering/chorm/connector"
)

type pingResult struct {
	addr    string
	latency time.Duration
	version string
	err     error
}

type versioner interface {
	ServerVersion() (string, error)
}

func newPingCommand(g *globalFlags) *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check every configured host is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := connector.LoadConfig(g.config)
			if err != nil {
				return err
			}
			results := pingAll(cmd.Context(), cfg, parallel, connector.WithLogger(g.logger(cmd)))

			failed := 0
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.err != nil {
					failed++
					failColor.Fprintf(out, "FAIL %s: %v\n", r.addr, r.err)
					continue
				}
				line := fmt.Sprintf("OK   %s %s", r.addr, r.latency.Round(time.Millisecond))
				if r.version != "" {
					line += " (" + r.version + ")"
				}
				okColor.Fprintln(out, line)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d hosts unreachable", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "hosts pinged at once")
	return cmd
}

// pingAll pings each address of cfg independently. A failure is recorded in
// its result and does not stop the others.
func pingAll(ctx context.Context, cfg connector.Config, parallel int, opts ...connector.Option) []pingResult {
	addrs := cfg.Addrs()
	results := make([]pingResult, len(addrs))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, addr := range addrs {
		g.Go(func() error {
			results[i] = pingOne(ctx, cfg, addr, opts...)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func pingOne(ctx context.Context, cfg connector.Config, addr string, opts ...connector.Option) pingResult {
	r := pingResult{addr: addr}
	single, err := cfg.Single(addr)
	if err != nil {
		r.err = err
		return r
	}

	start := time.Now()
	conn, err := connector.Open(ctx, single, opts...)
	if err != nil {
		r.err = err
		return r
	}
	defer conn.Close()
	r.latency = time.Since(start)

	if v, ok := conn.Client().(versioner); ok {
		r.version, _ = v.ServerVersion()
	}
	return r
}
