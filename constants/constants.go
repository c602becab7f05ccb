package constants

import "github.com/ethereum/go-ethereum/common"

const MAINNET_API_URL = "https://api.hyperliquid.xyz"
const TESTNET_API_URL = "https://api.hyperliquid-testnet.xyz"
const LOCAL_API_URL = "http://localhost:3001"
const SIGNATURE_CHAIN_ID = 421614

// WEI_PER_HYPE converts between the wei-denominated gas caps carried by
// deploy actions and the HYPE-denominated prices reported by the auction
// endpoint. Protocol constant, not a tunable.
const WEI_PER_HYPE = 1e12

var ZERO_ADDRESS = common.Address{}
