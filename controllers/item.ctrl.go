package controllers

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avatarlabs/minthub.go/db/models"
	"github.com/avatarlabs/minthub.go/lib/responses"
	"github.com/avatarlabs/minthub.go/lib/service"
	"github.com/avatarlabs/minthub.go/pricing"
)

// ItemController : Item controller struct
type ItemController struct {
	svc *service.MinthubService
}

func NewItemController(svc *service.MinthubService) *ItemController {
	return &ItemController{svc: svc}
}

type Item struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Website        string    `json:"website,omitempty"`
	BodyType       string    `json:"body_type,omitempty"`
	OutfitGender   string    `json:"outfit_gender,omitempty"`
	SkinTone       string    `json:"skin_tone,omitempty"`
	AvatarDate     string    `json:"avatar_date,omitempty"`
	ImageURI       string    `json:"image_uri"`
	TokenURI       string    `json:"token_uri"`
	Payer          string    `json:"payer"`
	Instrument     string    `json:"instrument"`
	InstrumentKind string    `json:"instrument_kind"`
	AmountTendered string    `json:"amount_tendered"`
	UsdValuePaid   string    `json:"usd_value_paid"`
	PaymentTxRef   string    `json:"payment_tx_ref,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func itemResponse(item *models.Item) Item {
	// The ledger stores the canonical 18-decimal integer; the wire format
	// is the human decimal string.
	usd := item.UsdValuePaid
	if v, ok := new(big.Int).SetString(item.UsdValuePaid, 10); ok {
		usd = pricing.FormatUSD(v)
	}
	return Item{
		ID:             item.ID,
		FirstName:      item.FirstName,
		LastName:       item.LastName,
		Website:        item.Website,
		BodyType:       item.BodyType,
		OutfitGender:   item.OutfitGender,
		SkinTone:       item.SkinTone,
		AvatarDate:     item.AvatarDate,
		ImageURI:       item.ImageURI,
		TokenURI:       item.TokenURI,
		Payer:          item.Payer,
		Instrument:     item.Instrument,
		InstrumentKind: item.InstrumentKind,
		AmountTendered: item.AmountTendered,
		UsdValuePaid:   usd,
		PaymentTxRef:   item.PaymentTxRef,
		CreatedAt:      item.CreatedAt,
	}
}

// GetItem godoc
// @Summary      Retrieve a minted item
// @Description  Returns one issued item by its ledger id
// @Accept       json
// @Produce      json
// @Tags         Item
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  Item
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/items/{id} [get]
func (controller *ItemController) GetItem(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Logger().Errorf("Invalid item id: %v", c.Param("id"))
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	item, err := controller.svc.ItemByID(c.Request().Context(), id)
	if err != nil {
		if resp, ok := responses.Lookup(err); ok {
			return c.JSON(resp.HttpStatusCode, resp)
		}
		return err
	}
	return c.JSON(http.StatusOK, itemResponse(item))
}

// ListItems godoc
// @Summary      List minted items
// @Description  Returns issued items, newest first
// @Accept       json
// @Produce      json
// @Tags         Item
// @Param        limit   query     int  false  "Max items to return"
// @Param        offset  query     int  false  "Items to skip"
// @Success      200     {object}  []Item
// @Failure      500     {object}  responses.ErrorResponse
// @Router       /v2/items [get]
func (controller *ItemController) ListItems(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	items, err := controller.svc.Items(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	response := make([]Item, len(items))
	for i := range items {
		response[i] = itemResponse(&items[i])
	}
	return c.JSON(http.StatusOK, response)
}
