package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, name := range []string{"PRIVATE_KEY", "BSC_RPC_URL", "BSCSCAN_API_KEY", "NETRESOLVE_CONFIG", "NETRESOLVE_ENV_FILE"} {
		t.Setenv(name, "") // restores the original value on cleanup
		require.NoError(t, os.Unsetenv(name))
	}

	jsonOut, endpointOverride, cfgFile, envFiles, concurrency = false, "", "", nil, 0
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags() {
	jsonOut, endpointOverride, cfgFile, envFiles, concurrency = false, "", "", nil, 0
	_ = rootCmd.PersistentFlags().Set("config", "")
	_ = rootCmd.PersistentFlags().Set("json", "false")
	_ = rootCmd.PersistentFlags().Set("concurrency", "0")
	_ = resolveCmd.Flags().Set("endpoint", "")
	envFlag := rootCmd.PersistentFlags().Lookup("env-file")
	_ = envFlag.Value.(pflag.SliceValue).Replace(nil)
	envFlag.Changed = false
}

func TestNetworksCommand(t *testing.T) {
	out, err := run(t, "networks")
	require.NoError(t, err)
	assert.Contains(t, out, "solidity 0.8.28")
	assert.Contains(t, out, "$BSC_RPC_URL")
	assert.Contains(t, out, "https://data-seed-prebsc-1-s1.binance.org:8545/")
	assert.Contains(t, out, "PRIVATE_KEY:hex_private_key")
}

func TestResolveCommand_ReadOnlyTestnet(t *testing.T) {
	out, err := run(t, "resolve", "bscTestnet", "--json")
	require.NoError(t, err)
	assert.Regexp(t, `"state":\s*"resolved"`, out)
	assert.Regexp(t, `"chainId":\s*97`, out)
}

func TestResolveCommand_MainnetNeedsEndpoint(t *testing.T) {
	out, err := run(t, "resolve", "bsc")
	require.Error(t, err)
	assert.Contains(t, out, "MissingEndpoint")
}

func TestResolveCommand_EndpointOverride(t *testing.T) {
	out, err := run(t, "resolve", "bsc", "--endpoint", "https://bsc-dataseed.binance.org")
	require.NoError(t, err)
	assert.Contains(t, out, "RESOLVED")
}

func TestResolveCommand_EnvFileKeyNeverPrinted(t *testing.T) {
	key := "0x" + strings.Repeat("5e", 32)
	dir := t.TempDir()
	envPath := filepath.Join(dir, "deploy.env")
	require.NoError(t, os.WriteFile(envPath, []byte("PRIVATE_KEY="+key+"\n"), 0o600))

	out, err := run(t, "resolve", "bscTestnet", "--env-file", envPath, "--json")
	require.NoError(t, err)
	assert.NotContains(t, out, key[2:])
	assert.Regexp(t, `"variable":\s*"PRIVATE_KEY"`, out)
}

func TestResolveCommand_CustomConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "networks.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("networks:\n  - name: bsc\n    endpoint: https://rpc.example.org\n    chainID: 97\n"), 0o600))

	out, err := run(t, "resolve", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, out, "ChainIDMismatch")
}

func TestResolveCommand_Concurrency(t *testing.T) {
	out, err := run(t, "resolve", "bscTestnet", "bsc", "--concurrency", "1")
	require.Error(t, err)
	assert.Contains(t, out, "RESOLVED")
	assert.Contains(t, out, "MissingEndpoint")
}

func TestEnvFileList_SplitsCommaSeparatedEnv(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)
	initConfig()

	t.Setenv("NETRESOLVE_ENV_FILE", "a.env,b.env")
	assert.Equal(t, []string{"a.env", "b.env"}, envFileList())

	t.Setenv("NETRESOLVE_ENV_FILE", "a.env b.env,a.env")
	assert.Equal(t, []string{"a.env", "b.env"}, envFileList())
}

func TestEnvFileList_FlagWins(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)
	initConfig()
	t.Setenv("NETRESOLVE_ENV_FILE", "ignored.env")

	require.NoError(t, rootCmd.PersistentFlags().Set("env-file", "x.env,y.env"))
	assert.Equal(t, []string{"x.env", "y.env"}, envFileList())
}

func TestStatusText_BalancesInAddressOrder(t *testing.T) {
	views := []probeView{
		{
			Name: "bsc", ChainID: 56, RemoteChainID: 56, Match: true,
			Balances: map[string]string{
				"0xCCCC000000000000000000000000000000000003": "3",
				"0xAAAA000000000000000000000000000000000001": "1",
				"0xBBBB000000000000000000000000000000000002": "2",
			},
		},
		{Name: "bscTestnet", ChainID: 97, RemoteChainID: 56},
		{Name: "other", Error: "dial failed"},
	}

	var first bytes.Buffer
	writeProbeText(&first, views)
	for range 10 {
		var again bytes.Buffer
		writeProbeText(&again, views)
		require.Equal(t, first.String(), again.String())
	}

	out := first.String()
	a := strings.Index(out, "0xAAAA")
	b := strings.Index(out, "0xBBBB")
	c := strings.Index(out, "0xCCCC")
	assert.True(t, a >= 0 && a < b && b < c, out)
	assert.Contains(t, out, "OK        chain 56")
	assert.Contains(t, out, "MISMATCH  profile chain 97, endpoint reports 56")
	assert.Contains(t, out, "FAIL      dial failed")
}
