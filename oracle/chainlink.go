package oracle

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	minthub "github.com/avatarlabs/minthub.go/common"
)

// Subset of the Chainlink AggregatorV3Interface we consume.
const aggregatorABI = `[
  {"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"latestRoundData","outputs":[
    {"internalType":"uint80","name":"roundId","type":"uint80"},
    {"internalType":"int256","name":"answer","type":"int256"},
    {"internalType":"uint256","name":"startedAt","type":"uint256"},
    {"internalType":"uint256","name":"updatedAt","type":"uint256"},
    {"internalType":"uint80","name":"answeredInRound","type":"uint80"}
  ],"stateMutability":"view","type":"function"}
]`

// ChainlinkOracle reads prices from AggregatorV3-compatible feed contracts.
type ChainlinkOracle struct {
	caller bind.ContractCaller
	abi    abi.ABI
	// Quotes older than MaxQuoteAge are rejected. Zero disables the check
	// (some devnets never push rounds).
	maxQuoteAge time.Duration
}

func NewChainlinkOracle(caller bind.ContractCaller, maxQuoteAge time.Duration) (*ChainlinkOracle, error) {
	parsed, err := abi.JSON(strings.NewReader(aggregatorABI))
	if err != nil {
		return nil, err
	}
	return &ChainlinkOracle{caller: caller, abi: parsed, maxQuoteAge: maxQuoteAge}, nil
}

func (o *ChainlinkOracle) contract(feed common.Address) *bind.BoundContract {
	return bind.NewBoundContract(feed, o.abi, o.caller, nil, nil)
}

func (o *ChainlinkOracle) LatestQuote(ctx context.Context, feed common.Address) (Quote, error) {
	opts := &bind.CallOpts{Context: ctx}
	contract := o.contract(feed)

	var decimalsOut []interface{}
	if err := contract.Call(opts, &decimalsOut, "decimals"); err != nil {
		return Quote{}, fmt.Errorf("%w: decimals call failed for %s: %v", minthub.ErrStaleOrInvalidQuote, feed, err)
	}
	decimals := decimalsOut[0].(uint8)

	var roundOut []interface{}
	if err := contract.Call(opts, &roundOut, "latestRoundData"); err != nil {
		return Quote{}, fmt.Errorf("%w: latestRoundData call failed for %s: %v", minthub.ErrStaleOrInvalidQuote, feed, err)
	}
	answer := roundOut[1].(*big.Int)
	updatedAt := roundOut[3].(*big.Int)

	quote := Quote{
		Price:     answer,
		Decimals:  decimals,
		UpdatedAt: time.Unix(updatedAt.Int64(), 0),
	}
	if err := quote.Validate(time.Now(), o.maxQuoteAge); err != nil {
		return Quote{}, err
	}
	return quote, nil
}

// VerifyFeed treats any address that answers decimals() as a valid feed,
// mirroring how the registry only accepts aggregators it can actually read.
func (o *ChainlinkOracle) VerifyFeed(ctx context.Context, feed common.Address) error {
	var out []interface{}
	if err := o.contract(feed).Call(&bind.CallOpts{Context: ctx}, &out, "decimals"); err != nil {
		return fmt.Errorf("%w: %s: %v", minthub.ErrInvalidFeed, feed, err)
	}
	return nil
}

var _ PriceOracle = (*ChainlinkOracle)(nil)
