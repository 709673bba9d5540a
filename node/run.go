package node

import (
	"fmt"
	"os"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/vrecan/death/v3"

	"github.com/petiibhuzah/cryptocurrency/api"
	"github.com/petiibhuzah/cryptocurrency/blockchain"
	"github.com/petiibhuzah/cryptocurrency/config"
	"github.com/petiibhuzah/cryptocurrency/peer"
	"github.com/petiibhuzah/cryptocurrency/wallet"
)

/**
 * Created by GoLand.
 * Project: golang-blockchain
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 10:40
 */

// Run wires a full node process: Ledger, HTTP facade, and the keystore for
// cfg.NodeID, held open for the process lifetime and closed on shutdown.
// Run itself neither stores nor reads wallets in it; minerAddress is only
// validated and logged. It blocks until SIGINT/SIGTERM, mirroring the
// teacher's network.StartServer shutdown discipline but redirected at the
// HTTP server and the keystore's badger handle instead of a TCP listener.
func Run(cfg *config.Config, minerAddress string) error {
	logger := logrus.New()
	entry := logger.WithField("node_id", cfg.NodeID)

	if minerAddress != "" && !wallet.ValidateAddress(minerAddress) {
		return fmt.Errorf("invalid miner address: %s", minerAddress)
	}

	ks, err := wallet.OpenKeystore(cfg.NodeID)
	if err != nil {
		return fmt.Errorf("opening keystore: %w", err)
	}

	client := peer.NewClient(0)
	ledger := blockchain.NewLedger(client,
		blockchain.WithLogger(entry),
		blockchain.WithDifficultyPrefix(cfg.DifficultyPrefix),
		blockchain.WithBlockSizeLimit(cfg.BlockSizeLimit),
		blockchain.WithInitialMiningReward(cfg.InitialMiningReward),
		blockchain.WithHalvingInterval(cfg.HalvingInterval),
	)

	server := api.NewServer(ledger, entry, cfg.HTTPAddr)

	if minerAddress != "" {
		entry.WithField("miner", minerAddress).Info("mining enabled, reward address configured")
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			entry.WithError(err).Error("api server stopped")
		}
	}()

	d := death.NewDeath(syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	d.WaitForDeathWithFunc(func() {
		defer runtime.Goexit()
		if err := ks.Close(); err != nil {
			entry.WithError(err).Warn("error closing keystore")
		}
		entry.Info("shutdown complete")
	})

	return nil
}
