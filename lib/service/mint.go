package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/avatarlabs/minthub.go/common"
	"github.com/avatarlabs/minthub.go/db/models"
	"github.com/avatarlabs/minthub.go/payment"
	"github.com/avatarlabs/minthub.go/pricing"
)

// Constraint names checked against Postgres unique violations.
const (
	profileHashConstraint = "items_profile_hash_key"
	depositRefConstraint  = "items_native_deposit_ref_key"
)

// pgUniqueViolation reports whether err is a Postgres unique violation
// (SQLSTATE 23505) on the named constraint.
func pgUniqueViolation(err error, constraint string) bool {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Field('C') == "23505" && pgErr.Field('n') == constraint
}

// MintRequest is a fully parsed mint attempt. The zero instrument address
// selects the native currency, in which case DepositTxRef must reference the
// payer's confirmed deposit.
type MintRequest struct {
	Payer        ethcommon.Address
	Instrument   ethcommon.Address
	Amount       *big.Int
	DepositTxRef string
	Profile      Profile
}

// Mint runs one request through the issuance pipeline: validate, convert the
// tendered amount to USD against a fresh oracle quote, check it against the
// required fee, collect the payment, and commit the new item together with
// the fee schedule bump. A failure at any step leaves the ledger, the fee
// state and the id sequence exactly as they were.
func (svc *MinthubService) Mint(ctx context.Context, req MintRequest) (*models.Item, error) {
	svc.mintMu.Lock()
	defer svc.mintMu.Unlock()

	// Validating
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, common.ErrZeroPayment
	}
	if err := req.Profile.Validate(); err != nil {
		return nil, err
	}
	feed, err := svc.FeedFor(ctx, req.Instrument)
	if err != nil {
		return nil, err
	}

	kind := common.InstrumentKindToken
	decimals := uint8(payment.NativeDecimals)
	if req.Instrument == (ethcommon.Address{}) {
		kind = common.InstrumentKindNative
		if req.DepositTxRef == "" {
			return nil, fmt.Errorf("%w: native mints require a deposit reference", payment.ErrCollectionFailed)
		}
	} else {
		decimals, err = svc.Collector.TokenDecimals(ctx, req.Instrument)
		if err != nil {
			return nil, err
		}
	}

	// Converting
	quote, err := svc.Oracle.LatestQuote(ctx, feed)
	if err != nil {
		return nil, err
	}
	usdValue, err := pricing.ToUSD(req.Amount, decimals, quote.Price, quote.Decimals)
	if err != nil {
		return nil, err
	}

	// FeeCheck
	requiredFee, err := svc.RequiredFee(ctx)
	if err != nil {
		return nil, err
	}
	if usdValue.Cmp(requiredFee) < 0 {
		return nil, fmt.Errorf("%w: tendered %s USD, required %s USD",
			common.ErrInsufficientPayment, pricing.FormatUSD(usdValue), pricing.FormatUSD(requiredFee))
	}

	// Collecting and Committing form one unit of work. The ledger insert
	// and the fee bump happen inside the transaction before the funds
	// move; a collection failure rolls everything back, so no partial
	// state can survive and failed attempts burn no id.
	tx, err := svc.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}

	id, _, err := svc.allocateIssuance(ctx, tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	tokenURI, err := svc.buildTokenURI(id, req.Profile)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	item := models.Item{
		ID:             id,
		FirstName:      req.Profile.FirstName,
		LastName:       req.Profile.LastName,
		Website:        req.Profile.Website,
		BodyType:       req.Profile.BodyType,
		OutfitGender:   req.Profile.OutfitGender,
		SkinTone:       req.Profile.SkinTone,
		AvatarDate:     req.Profile.AvatarDate,
		ImageURI:       req.Profile.ImageURI,
		TokenURI:       tokenURI,
		Payer:          req.Payer.Hex(),
		Instrument:     req.Instrument.Hex(),
		InstrumentKind: kind,
		AmountTendered: req.Amount.String(),
		UsdValuePaid:   usdValue.String(),
		CreatedAt:      time.Now(),
	}
	if svc.Config.EnforceUniqueProfiles {
		item.ProfileHash = models.HashProfile(item.FirstName, item.LastName)
	}
	if _, err := tx.NewInsert().Model(&item).Exec(ctx); err != nil {
		tx.Rollback()
		if pgUniqueViolation(err, profileHashConstraint) {
			return nil, fmt.Errorf("%w: %s %s", common.ErrDuplicateProfile, item.FirstName, item.LastName)
		}
		return nil, err
	}

	var txRef string
	if kind == common.InstrumentKindNative {
		txRef, err = svc.Collector.VerifyNativeDeposit(ctx, req.Payer, req.Amount, req.DepositTxRef)
	} else {
		txRef, err = svc.Collector.PullToken(ctx, req.Instrument, req.Payer, req.Amount)
	}
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// A native deposit is a bearer proof: once it has paid for an item it
	// must never pay for another one. The ledger is the consumed set, with
	// a partial unique index as the cross-process backstop.
	if kind == common.InstrumentKindNative {
		consumed, err := tx.NewSelect().
			Model((*models.Item)(nil)).
			Where("payment_tx_ref = ?", txRef).
			Where("instrument_kind = ?", common.InstrumentKindNative).
			Exists(ctx)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if consumed {
			tx.Rollback()
			return nil, fmt.Errorf("%w: deposit %s already consumed", payment.ErrCollectionFailed, txRef)
		}
	}

	item.PaymentTxRef = txRef
	if _, err := tx.NewUpdate().Model(&item).Column("payment_tx_ref").WherePK().Exec(ctx); err != nil {
		tx.Rollback()
		if pgUniqueViolation(err, depositRefConstraint) {
			return nil, fmt.Errorf("%w: deposit %s already consumed", payment.ErrCollectionFailed, txRef)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	svc.Logger.Infof("Minted item id:%d payer:%s instrument:%s usd:%s tx:%s",
		item.ID, item.Payer, item.Instrument, pricing.FormatUSD(usdValue), txRef)
	svc.publishEvent(ctx, common.EventMintIssued, MintIssuedEvent{
		ID:             item.ID,
		Payer:          item.Payer,
		Instrument:     item.Instrument,
		AmountTendered: item.AmountTendered,
		UsdValuePaid:   item.UsdValuePaid,
		PaymentTxRef:   item.PaymentTxRef,
	})
	return &item, nil
}
