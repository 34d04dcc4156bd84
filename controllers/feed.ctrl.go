package controllers

import (
	"net/http"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/avatarlabs/minthub.go/common"
	"github.com/avatarlabs/minthub.go/lib/responses"
	"github.com/avatarlabs/minthub.go/lib/service"
)

// FeedController : Price feed registry controller struct
type FeedController struct {
	svc *service.MinthubService
}

func NewFeedController(svc *service.MinthubService) *FeedController {
	return &FeedController{svc: svc}
}

type FeedResponse struct {
	Instrument string `json:"instrument"`
	Feed       string `json:"feed"`
}

// GetNativeFeed godoc
// @Summary      Retrieve the native price feed
// @Description  Returns the aggregator bound to the native currency
// @Accept       json
// @Produce      json
// @Tags         Feed
// @Success      200  {object}  FeedResponse
// @Router       /v2/feeds/native [get]
func (controller *FeedController) GetNativeFeed(c echo.Context) error {
	return c.JSON(http.StatusOK, &FeedResponse{
		Instrument: common.NativeInstrument,
		Feed:       controller.svc.NativeFeedAddr.Hex(),
	})
}

// GetFeed godoc
// @Summary      Retrieve an instrument's price feed
// @Description  Returns the aggregator bound to a payment instrument
// @Accept       json
// @Produce      json
// @Tags         Feed
// @Param        instrument  path      string  true  "Instrument address"
// @Success      200         {object}  FeedResponse
// @Failure      400         {object}  responses.ErrorResponse
// @Router       /v2/feeds/{instrument} [get]
func (controller *FeedController) GetFeed(c echo.Context) error {
	param := c.Param("instrument")
	if !ethcommon.IsHexAddress(param) {
		c.Logger().Errorf("Invalid instrument address: %v", param)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	instrument := ethcommon.HexToAddress(param)

	feed, err := controller.svc.FeedFor(c.Request().Context(), instrument)
	if err != nil {
		if resp, ok := responses.Lookup(err); ok {
			return c.JSON(resp.HttpStatusCode, resp)
		}
		return err
	}
	return c.JSON(http.StatusOK, &FeedResponse{
		Instrument: instrument.Hex(),
		Feed:       feed.Hex(),
	})
}
