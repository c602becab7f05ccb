// Finalizes the EVM contract link for an already-deployed spot token.
// Configuration comes from the environment (a .env file is honored):
//
//	PRIVATE_KEY   deployer key, hex without 0x prefix (required)
//	NETWORK       "mainnet" or "testnet" (default testnet)
//	TOKEN_INDEX   spot token index (required)
//	STORAGE_SLOT  "first", "custom" or "create" (required)
//	DEPLOY_NONCE  deployer nonce, only with STORAGE_SLOT=create
//	DRY_RUN       "true" builds and signs but never posts
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/banky/go-hyperdeploy/constants"
	"github.com/banky/go-hyperdeploy/exchange"
	"github.com/banky/go-hyperdeploy/pipeline"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	godotenv.Load()

	privateKey, err := crypto.HexToECDSA(os.Getenv("PRIVATE_KEY"))
	if err != nil {
		return fmt.Errorf("invalid PRIVATE_KEY: %w", err)
	}

	baseURL := constants.TESTNET_API_URL
	if os.Getenv("NETWORK") == "mainnet" {
		baseURL = constants.MAINNET_API_URL
	}

	token, err := strconv.ParseInt(os.Getenv("TOKEN_INDEX"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid TOKEN_INDEX: %w", err)
	}

	var opt exchange.FinalizeEvmContractOption
	switch slot := os.Getenv("STORAGE_SLOT"); slot {
	case "first":
		opt = exchange.WithFirstStorageSlot()
	case "custom":
		opt = exchange.WithCustomStorageSlot()
	case "create":
		nonce, err := strconv.ParseUint(os.Getenv("DEPLOY_NONCE"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid DEPLOY_NONCE: %w", err)
		}
		opt = exchange.WithCreateNonce(nonce)
	default:
		return fmt.Errorf("STORAGE_SLOT must be first, custom or create, got %q", slot)
	}

	dryRun, _ := strconv.ParseBool(os.Getenv("DRY_RUN"))

	exchangeClient, err := exchange.New(exchange.Config{
		BaseURL:    baseURL,
		PrivateKey: privateKey,
		DryRun:     dryRun,
	})
	if err != nil {
		return err
	}

	p, err := pipeline.New(pipeline.Config{Exchange: exchangeClient})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("finalizing EVM contract for token %d\n", token)

	result, err := p.Run(
		ctx,
		exchange.FinalizeEvmContractRequest(token, opt),
	)
	if err != nil {
		return err
	}

	return report(result)
}

func report(result *exchange.Result) error {
	payload, err := json.MarshalIndent(result.Payload, "", "  ")
	if err != nil {
		return err
	}

	switch {
	case result.DryRun():
		fmt.Println("dry run, nothing submitted; payload:")
		fmt.Println(string(payload))
		return nil

	case result.Accepted():
		fmt.Println("accepted:", string(result.Response))
		return nil

	default:
		return fmt.Errorf("rejected: %s", result.ErrorDetail)
	}
}
