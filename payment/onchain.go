package payment

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const erc20ABI = `[
  {"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"address","name":"spender","type":"address"}],"name":"allowance","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"address","name":"from","type":"address"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"transferFrom","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

// ChainBackend is the slice of an Ethereum client the collector needs.
// *ethclient.Client satisfies it.
type ChainBackend interface {
	bind.ContractBackend
	bind.DeployBackend
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

// OnchainCollector pulls ERC-20 payments with transferFrom and verifies
// native-currency deposits sent directly to the custody address.
type OnchainCollector struct {
	backend ChainBackend
	abi     abi.ABI
	auth    *bind.TransactOpts
	custody common.Address
	chainID *big.Int
}

func NewOnchainCollector(backend ChainBackend, auth *bind.TransactOpts, custody common.Address, chainID *big.Int) (*OnchainCollector, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, err
	}
	return &OnchainCollector{
		backend: backend,
		abi:     parsed,
		auth:    auth,
		custody: custody,
		chainID: chainID,
	}, nil
}

func (c *OnchainCollector) contract(token common.Address) *bind.BoundContract {
	return bind.NewBoundContract(token, c.abi, c.backend, c.backend, c.backend)
}

func (c *OnchainCollector) PullToken(ctx context.Context, token, payer common.Address, amount *big.Int) (string, error) {
	contract := c.contract(token)
	opts := &bind.CallOpts{Context: ctx}

	// Pre-flight the allowance and balance so the failure reason reaches
	// the payer instead of a bare reverted transaction.
	var out []interface{}
	if err := contract.Call(opts, &out, "allowance", payer, c.custody); err != nil {
		return "", fmt.Errorf("%w: allowance call: %v", ErrCollectionFailed, err)
	}
	if allowance := out[0].(*big.Int); allowance.Cmp(amount) < 0 {
		return "", fmt.Errorf("%w: ERC20: insufficient allowance", ErrCollectionFailed)
	}
	out = nil
	if err := contract.Call(opts, &out, "balanceOf", payer); err != nil {
		return "", fmt.Errorf("%w: balanceOf call: %v", ErrCollectionFailed, err)
	}
	if balance := out[0].(*big.Int); balance.Cmp(amount) < 0 {
		return "", fmt.Errorf("%w: ERC20: transfer amount exceeds balance", ErrCollectionFailed)
	}

	auth := *c.auth
	auth.Context = ctx
	tx, err := contract.Transact(&auth, "transferFrom", payer, c.custody, amount)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCollectionFailed, err)
	}
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return "", fmt.Errorf("%w: waiting for transfer %s: %v", ErrCollectionFailed, tx.Hash(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("%w: transfer %s reverted", ErrCollectionFailed, tx.Hash())
	}
	return tx.Hash().Hex(), nil
}

func (c *OnchainCollector) VerifyNativeDeposit(ctx context.Context, payer common.Address, amount *big.Int, txRef string) (string, error) {
	hash := common.HexToHash(txRef)
	tx, pending, err := c.backend.TransactionByHash(ctx, hash)
	if err != nil {
		return "", fmt.Errorf("%w: deposit %s not found: %v", ErrCollectionFailed, txRef, err)
	}
	if pending {
		return "", fmt.Errorf("%w: deposit %s not confirmed yet", ErrCollectionFailed, txRef)
	}
	if tx.To() == nil || *tx.To() != c.custody {
		return "", fmt.Errorf("%w: deposit %s was not sent to custody", ErrCollectionFailed, txRef)
	}
	sender, err := types.Sender(types.LatestSignerForChainID(c.chainID), tx)
	if err != nil {
		return "", fmt.Errorf("%w: cannot recover deposit sender: %v", ErrCollectionFailed, err)
	}
	if sender != payer {
		return "", fmt.Errorf("%w: deposit %s was not sent by payer", ErrCollectionFailed, txRef)
	}
	if tx.Value().Cmp(amount) < 0 {
		return "", fmt.Errorf("%w: deposit %s is below the tendered amount", ErrCollectionFailed, txRef)
	}
	receipt, err := c.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		return "", fmt.Errorf("%w: deposit receipt: %v", ErrCollectionFailed, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("%w: deposit %s reverted", ErrCollectionFailed, txRef)
	}
	return hash.Hex(), nil
}

func (c *OnchainCollector) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	var out []interface{}
	if err := c.contract(token).Call(&bind.CallOpts{Context: ctx}, &out, "decimals"); err != nil {
		return 0, fmt.Errorf("reading decimals of %s: %w", token, err)
	}
	return out[0].(uint8), nil
}

var _ Collector = (*OnchainCollector)(nil)
