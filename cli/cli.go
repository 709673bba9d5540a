package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petiibhuzah/cryptocurrency/config"
	"github.com/petiibhuzah/cryptocurrency/node"
	"github.com/petiibhuzah/cryptocurrency/peer"
	"github.com/petiibhuzah/cryptocurrency/wallet"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 11:05
 */

// minerAddress and remoteAddr back the --miner flag of `node start` and the
// --addr flag of `chain print`, following the teacher's CommandLine in
// spirit (a small set of flags feeding a handful of operations) but as
// cobra command flags rather than flag.FlagSet instances.
var (
	minerAddress string
	remoteAddr   string
)

// rootCmd replaces the teacher's flag-based CommandLine.Run with a cobra
// command tree (SPEC_FULL.md §11): node start, wallet create, wallet list,
// chain print. `node start` runs the node and its HTTP facade, the wallet
// subcommands manage the local keystore, and `chain print` fetches a
// running node's chain over GET /chain/get.
var rootCmd = &cobra.Command{
	Use:   "cryptocurrency",
	Short: "Operate a node in the UTXO-model cryptocurrency network",
}

var nodeStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start this node's HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if minerAddress != "" && !wallet.ValidateAddress(minerAddress) {
			return fmt.Errorf("invalid miner address: %s", minerAddress)
		}
		cfg := config.Load()
		return node.Run(cfg, minerAddress)
	},
}

var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate and persist a new wallet in this node's keystore",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		ks, err := wallet.OpenKeystore(cfg.NodeID)
		if err != nil {
			return err
		}
		defer ks.Close()

		address, err := ks.AddWallet()
		if err != nil {
			return err
		}
		fmt.Printf("new wallet created with address: %s\n", address)
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every address held in this node's keystore",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		ks, err := wallet.OpenKeystore(cfg.NodeID)
		if err != nil {
			return err
		}
		defer ks.Close()

		addresses, err := ks.GetAllAddresses()
		if err != nil {
			return err
		}
		for _, address := range addresses {
			fmt.Println(address)
		}
		return nil
	},
}

var chainPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Fetch and print the chain held by a running node",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := peer.NewClient(0)
		_, chain, err := client.GetChain(context.Background(), remoteAddr)
		if err != nil {
			return err
		}
		encoded, err := json.MarshalIndent(chain, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	},
}

func init() {
	nodeStartCmd.Flags().StringVar(&minerAddress, "miner", "", "enable mining mode and send rewards to ADDRESS")
	chainPrintCmd.Flags().StringVar(&remoteAddr, "addr", "localhost:8000", "host:port of the node to query")

	nodeCmd := &cobra.Command{Use: "node", Short: "Node lifecycle commands"}
	nodeCmd.AddCommand(nodeStartCmd)

	walletCmd := &cobra.Command{Use: "wallet", Short: "Local wallet management"}
	walletCmd.AddCommand(walletCreateCmd, walletListCmd)

	chainCmd := &cobra.Command{Use: "chain", Short: "Chain inspection commands"}
	chainCmd.AddCommand(chainPrintCmd)

	rootCmd.AddCommand(nodeCmd, walletCmd, chainCmd)
}

// Execute runs the root command, reading os.Args.
func Execute() error {
	rootCmd.SetArgs(os.Args[1:])
	return rootCmd.Execute()
}
