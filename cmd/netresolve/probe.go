package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"network_resolver/internal/infrastructure/network/client"
	"network_resolver/internal/pkg/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var probeCmd = &cobra.Command{
	Use:   "probe [network...]",
	Short: "Check resolved endpoints against their configured chain IDs",
	Long: `Resolve the networks, then ask each endpoint for eth_chainId and report the
native balance of every signer. Probing is rate limited per the config's probe section.`,
	RunE: runProbe,
}

type probeView struct {
	Name          string            `json:"name"`
	ChainID       int64             `json:"chainId"`
	RemoteChainID uint64            `json:"remoteChainId,omitempty"`
	Match         bool              `json:"match"`
	Balances      map[string]string `json:"balances,omitempty"`
	Error         string            `json:"error,omitempty"`
}

func runProbe(cmd *cobra.Command, args []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.close()

	prober := client.NewEVMClientProvider(app.cfg.Probe, app.log)
	defer prober.Close()

	results := app.service.ResolveAll(cmd.Context(), utils.Dedupe(args))
	views := make([]probeView, len(results))

	var mu sync.Mutex
	failed := 0
	eg, ctx := errgroup.WithContext(cmd.Context())
	if n := viper.GetInt("concurrency"); n > 0 {
		eg.SetLimit(n)
	}
	for i, res := range results {
		eg.Go(func() error {
			v := probeView{Name: res.Name}
			defer func() {
				views[i] = v
				if v.Error != "" || !v.Match {
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}()

			if res.Err != nil {
				v.Error = res.Err.Error()
				return nil
			}
			n := res.Network
			v.ChainID = n.ChainID()

			remote, err := prober.ProbeChainID(ctx, n.EndpointURL())
			if err != nil {
				v.Error = err.Error()
				return nil
			}
			v.RemoteChainID = remote
			v.Match = n.ChainID() > 0 && uint64(n.ChainID()) == remote
			if !v.Match {
				app.log.Warn("Endpoint chain ID differs from profile", "network", n.Name(), "profile_chain_id", n.ChainID(), "remote_chain_id", remote)
			}

			for _, addr := range n.SignerAddresses() {
				bal, err := prober.ProbeBalance(ctx, n.EndpointURL(), addr)
				if err != nil {
					app.log.Warn("Balance probe failed", "network", n.Name(), "address", addr.Hex(), "error", err)
					continue
				}
				if v.Balances == nil {
					v.Balances = make(map[string]string)
				}
				v.Balances[addr.Hex()] = bal
			}
			return nil
		})
	}
	_ = eg.Wait()

	if jsonOut {
		if err := printJSON(cmd, views); err != nil {
			return err
		}
	} else {
		writeProbeText(cmd.OutOrStdout(), views)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d networks failed the probe", failed, len(results))
	}
	return nil
}

// writeProbeText prints one status line per network followed by its signer
// balances in address order.
func writeProbeText(out io.Writer, views []probeView) {
	for _, v := range views {
		switch {
		case v.Error != "":
			fmt.Fprintf(out, "%-12s FAIL      %s\n", v.Name, v.Error)
		case !v.Match:
			fmt.Fprintf(out, "%-12s MISMATCH  profile chain %d, endpoint reports %d\n", v.Name, v.ChainID, v.RemoteChainID)
		default:
			fmt.Fprintf(out, "%-12s OK        chain %d\n", v.Name, v.RemoteChainID)
		}
		for _, addr := range slices.Sorted(maps.Keys(v.Balances)) {
			fmt.Fprintf(out, "%-12s   %s %s\n", "", addr, v.Balances[addr])
		}
	}
}
