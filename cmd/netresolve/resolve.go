package main

import (
	"fmt"
	"strings"

	"network_resolver/internal/domain/entity"
	"network_resolver/internal/pkg/utils"

	"github.com/spf13/cobra"
)

var endpointOverride string

var resolveCmd = &cobra.Command{
	Use:   "resolve [network...]",
	Short: "Resolve networks into endpoint and signer bundles",
	Long: `Resolve every configured network, or only the named ones. Signer values are
never printed; signers are shown by variable name and derived address.

Exits non-zero if any requested network is rejected.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&endpointOverride, "endpoint", "", "endpoint override (requires exactly one network)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	names := utils.Dedupe(args)
	if endpointOverride != "" && len(names) != 1 {
		return fmt.Errorf("--endpoint needs exactly one network name, got %d", len(names))
	}

	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.close()

	var results []entity.ResolutionResult
	if endpointOverride != "" {
		results = []entity.ResolutionResult{app.service.ResolveResult(entity.ResolveRequest{Name: names[0], EndpointOverride: endpointOverride})}
	} else {
		results = app.service.ResolveAll(cmd.Context(), names)
	}

	views := make([]resultView, 0, len(results))
	rejected := 0
	for _, res := range results {
		if res.State != entity.StateResolved {
			rejected++
		}
		views = append(views, viewOf(res))
	}

	if jsonOut {
		if err := printJSON(cmd, views); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		for _, v := range views {
			if v.Network == nil {
				fmt.Fprintf(out, "%-12s %s  %s\n", v.Name, strings.ToUpper(v.State), v.Error)
				continue
			}
			fmt.Fprintf(out, "%-12s %s  %s\n", v.Name, strings.ToUpper(v.State), v.Network.String())
			for _, addr := range v.Network.SignerAddresses() {
				fmt.Fprintf(out, "%-12s   signer %s\n", "", addr.Hex())
			}
		}
	}

	if rejected > 0 {
		return fmt.Errorf("%d of %d networks rejected", rejected, len(results))
	}
	return nil
}
