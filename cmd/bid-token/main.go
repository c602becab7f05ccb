// Bids for a spot token ticker in the deploy gas auction, waiting until the
// auction price falls to the configured ceiling before submitting.
// Configuration comes from the environment (a .env file is honored):
//
//	PRIVATE_KEY            deployer key, hex without 0x prefix (required)
//	NETWORK                "mainnet" or "testnet" (default testnet)
//	TOKEN_SYMBOL           ticker, e.g. "TEST" (required)
//	TOKEN_FULL_NAME        display name, e.g. "Test Token"
//	SZ_DECIMALS            order size decimals (required)
//	WEI_DECIMALS           on-chain balance decimals (required)
//	MAX_GAS_WEI            bid ceiling in wei, 1 HYPE = 1e12 wei (required)
//	POLL_INTERVAL_SECONDS  auction poll interval (default 5)
//	DRY_RUN                "true" builds and signs but never posts
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/banky/go-hyperdeploy/auction"
	"github.com/banky/go-hyperdeploy/constants"
	"github.com/banky/go-hyperdeploy/exchange"
	"github.com/banky/go-hyperdeploy/info"
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

	symbol := os.Getenv("TOKEN_SYMBOL")
	fullName := os.Getenv("TOKEN_FULL_NAME")

	szDecimals, err := strconv.ParseInt(os.Getenv("SZ_DECIMALS"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid SZ_DECIMALS: %w", err)
	}
	weiDecimals, err := strconv.ParseInt(os.Getenv("WEI_DECIMALS"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid WEI_DECIMALS: %w", err)
	}
	maxGasWei, err := strconv.ParseInt(os.Getenv("MAX_GAS_WEI"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid MAX_GAS_WEI: %w", err)
	}

	var interval time.Duration
	if raw := os.Getenv("POLL_INTERVAL_SECONDS"); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid POLL_INTERVAL_SECONDS: %w", err)
		}
		interval = time.Duration(seconds) * time.Second
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

	infoClient := info.New(info.Config{BaseURL: baseURL})

	poller, err := auction.New(auction.Config{
		Status:    infoClient,
		User:      crypto.PubkeyToAddress(privateKey.PublicKey),
		MaxGasWei: maxGasWei,
		Interval:  interval,
	})
	if err != nil {
		return err
	}

	p, err := pipeline.New(pipeline.Config{
		Exchange: exchangeClient,
		Poller:   poller,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf(
		"bidding for %q with a ceiling of %.2f HYPE\n",
		symbol,
		poller.MaxGasHype(),
	)

	result, err := p.Run(ctx, exchange.RegisterTokenRequest(
		symbol,
		fullName,
		szDecimals,
		weiDecimals,
		maxGasWei,
	))
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
