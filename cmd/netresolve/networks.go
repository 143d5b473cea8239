package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"network_resolver/internal/domain/entity"

	"github.com/spf13/cobra"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List configured network profiles",
	RunE:  runNetworks,
}

var knownCmd = &cobra.Command{
	Use:   "known",
	Short: "List well-known public networks used for chain ID checks",
	RunE:  runKnown,
}

type profileView struct {
	Name        string   `json:"name"`
	ChainID     int64    `json:"chainId"`
	Endpoint    string   `json:"endpoint,omitempty"`
	EndpointVar string   `json:"endpointVar,omitempty"`
	Credentials string   `json:"credentials"`
	SignerVars  []string `json:"signerVars"`
	ExplorerVar string   `json:"explorerApiKeyVar,omitempty"`
	KnownAs     string   `json:"knownAs,omitempty"`
}

func runNetworks(cmd *cobra.Command, _ []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.close()

	profiles := app.service.Profiles()
	views := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		v := profileView{
			Name:        p.Name,
			ChainID:     p.ChainID,
			Endpoint:    p.EndpointURL,
			EndpointVar: p.EndpointVar,
			Credentials: p.CredentialRequirement.String(),
			SignerVars:  make([]string, 0, len(p.Credentials)),
			ExplorerVar: p.ExplorerAPIKeyVar,
		}
		for _, c := range p.Credentials {
			v.SignerVars = append(v.SignerVars, c.VariableName+":"+c.ExpectedFormat.String())
		}
		if def, ok := app.known.GetNetworkDefinitionByName(p.Name); ok {
			v.KnownAs = def.Name
		}
		views = append(views, v)
	}

	if jsonOut {
		return printJSON(cmd, map[string]any{"solidity": app.cfg.Solidity, "networks": views})
	}

	out := cmd.OutOrStdout()
	if app.cfg.Solidity != "" {
		fmt.Fprintf(out, "solidity %s\n\n", app.cfg.Solidity)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCHAIN ID\tENDPOINT\tCREDENTIALS\tSIGNERS\tKNOWN AS")
	for _, v := range views {
		endpoint := v.Endpoint
		if v.EndpointVar != "" {
			endpoint = "$" + v.EndpointVar
			if v.Endpoint != "" {
				endpoint += " | " + v.Endpoint
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			v.Name, v.ChainID, dash(endpoint), v.Credentials, dash(strings.Join(v.SignerVars, ",")), dash(v.KnownAs))
	}
	return w.Flush()
}

func runKnown(cmd *cobra.Command, _ []string) error {
	app, err := newApplication()
	if err != nil {
		return err
	}
	defer app.close()

	defs := app.known.GetAllNetworkDefinitions()
	if jsonOut {
		return printJSON(cmd, defs)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHAIN ID\tIDENTIFIER\tNAME\tALIASES\tTESTNET")
	for _, d := range defs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			d.ChainID, d.Identifier, d.Name, dash(strings.Join(d.Aliases, ",")), strconv.FormatBool(d.Testnet))
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// resultView is the printable form of a ResolutionResult.
type resultView struct {
	Name    string                  `json:"name"`
	State   string                  `json:"state"`
	Network *entity.ResolvedNetwork `json:"network,omitempty"`
	Kind    string                  `json:"errorKind,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

func viewOf(res entity.ResolutionResult) resultView {
	v := resultView{Name: res.Name, State: res.State.String(), Network: res.Network}
	if res.Err != nil {
		v.Error = res.Err.Error()
		if kind, ok := entity.KindOf(res.Err); ok {
			v.Kind = string(kind)
		}
	}
	return v
}
