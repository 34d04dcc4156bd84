package controllers

import (
	"net/http"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"github.com/avatarlabs/minthub.go/lib/responses"
	"github.com/avatarlabs/minthub.go/lib/service"
)

// AdminController : Owner-only operations controller struct
type AdminController struct {
	svc *service.MinthubService
}

func NewAdminController(svc *service.MinthubService) *AdminController {
	return &AdminController{svc: svc}
}

type AddTokenSupportRequestBody struct {
	Instrument string `json:"instrument" validate:"required"`
	Feed       string `json:"feed" validate:"required"`
}

// AddTokenSupport godoc
// @Summary      Register a payment instrument
// @Description  Binds an ERC-20 instrument to a price feed; minting with it becomes possible immediately
// @Accept       json
// @Produce      json
// @Tags         Admin
// @Param        AddTokenSupportRequest  body      AddTokenSupportRequestBody  True  "Instrument and feed"
// @Success      200                     {object}  FeedResponse
// @Failure      400                     {object}  responses.ErrorResponse
// @Failure      401                     {object}  responses.ErrorResponse
// @Router       /v2/admin/tokens [post]
// @Security     OAuth2Password
func (controller *AdminController) AddTokenSupport(c echo.Context) error {
	reqBody := AddTokenSupportRequestBody{}
	if err := c.Bind(&reqBody); err != nil {
		c.Logger().Errorf("Failed to load token support request body: error: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&reqBody); err != nil {
		c.Logger().Errorf("Invalid token support request body: error: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if !ethcommon.IsHexAddress(reqBody.Instrument) || !ethcommon.IsHexAddress(reqBody.Feed) {
		c.Logger().Errorf("Invalid address in token support request: instrument:%v feed:%v",
			reqBody.Instrument, reqBody.Feed)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	binding, err := controller.svc.AddTokenSupport(c.Request().Context(),
		ethcommon.HexToAddress(reqBody.Instrument), ethcommon.HexToAddress(reqBody.Feed))
	if err != nil {
		c.Logger().Errorf("Failed to add token support: instrument:%v feed:%v error: %v",
			reqBody.Instrument, reqBody.Feed, err)
		if resp, ok := responses.Lookup(err); ok {
			return c.JSON(resp.HttpStatusCode, resp)
		}
		return err
	}
	return c.JSON(http.StatusOK, &FeedResponse{
		Instrument: binding.Instrument,
		Feed:       binding.Feed,
	})
}
