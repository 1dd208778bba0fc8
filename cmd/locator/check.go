package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/xraph/go-utils/errs"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xraph/locator"
	"github.com/xraph/locator/bootstrap"
	"github.com/xraph/locator/internal/demo"
	"github.com/xraph/locator/telemetry"
)

var errCheckFailed = errs.New("check failed")

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Build the configured locator and resolve every demo service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			l, err := bootstrap.New(cfg)
			if err != nil {
				return err
			}

			return multierr.Append(runCheck(cmd.OutOrStdout(), cfg.Container, l), l.Close())
		},
	}
}

func runCheck(out io.Writer, kind string, l locator.Locator) error {
	fmt.Fprintf(out, "container %s\n", cyan(kind))

	failed := false
	report := func(name string, err error) {
		if err != nil {
			failed = true
			fmt.Fprintf(out, "  %s %s: %v\n", red("FAIL"), name, err)
			return
		}
		fmt.Fprintf(out, "  %s %s\n", green("OK"), name)
	}

	_, err := locator.Resolve[*zap.Logger](l)
	report("logger", err)

	err = demo.Register(l.Batch())
	report("register demo services", err)

	if err == nil {
		greeters, err := locator.ResolveServices[demo.Greeter](l)
		report(fmt.Sprintf("greeters (%d)", len(greeters)), err)

		for _, route := range demo.Routes() {
			_, err := locator.ResolveNamed[http.Handler](l, route.Controller)
			report("controller "+route.Controller, err)
		}
	}

	if counters, err := locator.Resolve[*telemetry.Counters](l); err == nil {
		fmt.Fprintf(out, "resolutions %s, failures %s\n",
			cyan(counters.Resolutions.Value()), cyan(counters.ResolutionFailures.Value()))
	}

	if failed {
		return errCheckFailed
	}

	return nil
}
