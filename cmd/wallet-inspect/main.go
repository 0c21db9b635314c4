package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"keyfold/go-wallet/internal/platform/privacylog"
	"keyfold/go-wallet/internal/walletstore"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	walletPath := flag.String("wallet", "wallet.yaml", "Path to the wallet file")
	flag.Parse()
	if *showVersion {
		fmt.Printf("wallet-inspect version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	logger := slog.New(privacylog.WrapHandler(slog.NewTextHandler(os.Stderr, nil)))

	store, err := walletstore.NewStore(*walletPath, logger)
	if err != nil {
		log.Fatalf("wallet-inspect failed to open wallet: %v", err)
	}

	infos := store.Describe()
	if len(infos) == 0 {
		fmt.Println("wallet is empty")
		return
	}
	for _, info := range infos {
		state := "unencrypted"
		if info.Encrypted {
			state = "encrypted"
		}
		if info.Fingerprint != "" {
			fmt.Printf("%s\t%s\t%s\n", info.Alias, state, info.Fingerprint)
			continue
		}
		fmt.Printf("%s\t%s\n", info.Alias, state)
	}
}
