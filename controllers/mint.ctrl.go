package controllers

import (
	"math/big"
	"net/http"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/avatarlabs/minthub.go/lib/responses"
	"github.com/avatarlabs/minthub.go/lib/service"
)

// MintController : Mint controller struct
type MintController struct {
	svc *service.MinthubService
}

func NewMintController(svc *service.MinthubService) *MintController {
	return &MintController{svc: svc}
}

type MintRequestBody struct {
	Payer string `json:"payer" validate:"required"`
	// Instrument is the ERC-20 contract paying the fee. Empty or the zero
	// address selects the native currency.
	Instrument   string `json:"instrument"`
	Amount       string `json:"amount" validate:"required"`
	DepositTxRef string `json:"deposit_tx_ref"`

	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Website      string `json:"website"`
	BodyType     string `json:"body_type"`
	OutfitGender string `json:"outfit_gender"`
	SkinTone     string `json:"skin_tone"`
	AvatarDate   string `json:"avatar_date"`
	ImageURI     string `json:"image_uri" validate:"required"`
}

// Mint godoc
// @Summary      Mint an item
// @Description  Issues a new item against an oracle-priced payment
// @Accept       json
// @Produce      json
// @Tags         Mint
// @Param        MintRequest  body      MintRequestBody  True  "Mint request"
// @Success      200          {object}  Item
// @Failure      400          {object}  responses.ErrorResponse
// @Failure      500          {object}  responses.ErrorResponse
// @Router       /v2/mint [post]
func (controller *MintController) Mint(c echo.Context) error {
	reqBody := MintRequestBody{}
	if err := c.Bind(&reqBody); err != nil {
		c.Logger().Errorf("Failed to load mint request body: error: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&reqBody); err != nil {
		c.Logger().Errorf("Invalid mint request body: error: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if !ethcommon.IsHexAddress(reqBody.Payer) {
		c.Logger().Errorf("Invalid payer address: %v", reqBody.Payer)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	instrument := ethcommon.Address{}
	if reqBody.Instrument != "" {
		if !ethcommon.IsHexAddress(reqBody.Instrument) {
			c.Logger().Errorf("Invalid instrument address: %v", reqBody.Instrument)
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		instrument = ethcommon.HexToAddress(reqBody.Instrument)
	}
	amount, ok := new(big.Int).SetString(reqBody.Amount, 10)
	if !ok {
		c.Logger().Errorf("Invalid amount: %v", reqBody.Amount)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	item, err := controller.svc.Mint(c.Request().Context(), service.MintRequest{
		Payer:        ethcommon.HexToAddress(reqBody.Payer),
		Instrument:   instrument,
		Amount:       amount,
		DepositTxRef: reqBody.DepositTxRef,
		Profile: service.Profile{
			FirstName:    reqBody.FirstName,
			LastName:     reqBody.LastName,
			Website:      reqBody.Website,
			BodyType:     reqBody.BodyType,
			OutfitGender: reqBody.OutfitGender,
			SkinTone:     reqBody.SkinTone,
			AvatarDate:   reqBody.AvatarDate,
			ImageURI:     reqBody.ImageURI,
		},
	})
	if err != nil {
		c.Logger().Errorf("Mint failed: payer:%v instrument:%v error: %v", reqBody.Payer, reqBody.Instrument, err)
		if resp, ok := responses.Lookup(err); ok {
			return c.JSON(resp.HttpStatusCode, resp)
		}
		return err
	}

	return c.JSON(http.StatusOK, itemResponse(item))
}
