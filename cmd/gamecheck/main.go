// gamecheck probes one or more deployments' health endpoints and reports
// which are serving. Handy when the backend moves between hosting URLs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type options struct {
	timeout time.Duration
	verbose bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	opts := &options{}

	v := viper.New()
	v.SetEnvPrefix("GAMECHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "gamecheck [url...]",
		Short:         "Check which Drunksters backend deployments are healthy.",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := args
			if len(urls) == 0 {
				urls = []string{"http://localhost:3001"}
			}
			return checkAll(cmd.Context(), cmd.OutOrStdout(), urls, opts)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.DurationVarP(&opts.timeout, "timeout", "t", 5*time.Second, "per-URL request timeout (env: GAMECHECK_TIMEOUT)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "print full health payloads (env: GAMECHECK_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			fs.Set(f.Name, v.GetString(f.Name))
		}
	})

	return cmd
}

type healthResult struct {
	url     string
	status  int
	body    map[string]any
	err     error
	healthy bool
}

func checkAll(ctx context.Context, out io.Writer, urls []string, opts *options) error {
	healthyCount := 0
	for _, url := range urls {
		res := checkOne(ctx, url, opts.timeout)
		if res.healthy {
			healthyCount++
			fmt.Fprintf(out, "OK   %s (status %d)\n", res.url, res.status)
			if opts.verbose {
				pretty, _ := json.MarshalIndent(res.body, "     ", "  ")
				fmt.Fprintf(out, "     %s\n", pretty)
			}
			continue
		}
		if res.err != nil {
			fmt.Fprintf(out, "FAIL %s (%v)\n", res.url, res.err)
		} else {
			fmt.Fprintf(out, "FAIL %s (status %d)\n", res.url, res.status)
		}
	}

	if healthyCount == 0 {
		return fmt.Errorf("no healthy deployment among %d checked", len(urls))
	}
	return nil
}

func checkOne(ctx context.Context, baseURL string, timeout time.Duration) healthResult {
	res := healthResult{url: baseURL}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := strings.TrimSuffix(baseURL, "/") + "/api/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.err = err
		return res
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		res.err = err
		return res
	}
	defer resp.Body.Close()

	res.status = resp.StatusCode
	if err := json.NewDecoder(resp.Body).Decode(&res.body); err != nil {
		res.err = fmt.Errorf("response is not JSON: %w", err)
		return res
	}
	res.healthy = resp.StatusCode == http.StatusOK
	return res
}
