package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarlabs/minthub.go/lib/service"
	"github.com/avatarlabs/minthub.go/pricing"
)

// FeeController : Fee schedule controller struct
type FeeController struct {
	svc *service.MinthubService
}

func NewFeeController(svc *service.MinthubService) *FeeController {
	return &FeeController{svc: svc}
}

type FeeResponse struct {
	CurrentFeeUsd      string `json:"current_fee_usd"`
	InitialFeeUsd      string `json:"initial_fee_usd"`
	IssuedCount        int64  `json:"issued_count"`
	IncrementThreshold int64  `json:"increment_threshold"`
	EscalationFactor   int64  `json:"escalation_factor"`
}

// GetFees godoc
// @Summary      Retrieve the fee schedule
// @Description  Returns the current mint fee and issuance counters
// @Accept       json
// @Produce      json
// @Tags         Fee
// @Success      200  {object}  FeeResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/fees [get]
func (controller *FeeController) GetFees(c echo.Context) error {
	state, err := controller.svc.FeeState(c.Request().Context())
	if err != nil {
		return err
	}
	currentFee, err := state.CurrentFee()
	if err != nil {
		return err
	}
	initialFee, err := state.InitialFee()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &FeeResponse{
		CurrentFeeUsd:      pricing.FormatUSD(currentFee),
		InitialFeeUsd:      pricing.FormatUSD(initialFee),
		IssuedCount:        state.IssuedCount,
		IncrementThreshold: controller.svc.Config.FeeIncrementThreshold,
		EscalationFactor:   controller.svc.Config.FeeEscalationFactor,
	})
}
