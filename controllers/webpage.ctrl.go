package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/avatarlabs/minthub.go/lib/responses"
	"github.com/avatarlabs/minthub.go/lib/service"
)

// WebpageController : Contract webpage controller struct
type WebpageController struct {
	svc *service.MinthubService
}

func NewWebpageController(svc *service.MinthubService) *WebpageController {
	return &WebpageController{svc: svc}
}

type WebpageResponse struct {
	URI string `json:"uri"`
}

type SetWebpageRequestBody struct {
	URI string `json:"uri" validate:"required"`
}

// GetWebpage godoc
// @Summary      Retrieve the collection webpage
// @Description  Returns the contract-level webpage URI
// @Accept       json
// @Produce      json
// @Tags         Webpage
// @Success      200  {object}  WebpageResponse
// @Router       /v2/webpage [get]
func (controller *WebpageController) GetWebpage(c echo.Context) error {
	uri, err := controller.svc.WebpageURI(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &WebpageResponse{URI: uri})
}

// GetWebpageQR godoc
// @Summary      Webpage QR code
// @Description  Returns the webpage URI as a PNG QR code
// @Produce      png
// @Tags         Webpage
// @Success      200  {string}  binary  "PNG image"
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/webpage/qr [get]
func (controller *WebpageController) GetWebpageQR(c echo.Context) error {
	uri, err := controller.svc.WebpageURI(c.Request().Context())
	if err != nil {
		return err
	}
	if uri == "" {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// SetWebpage godoc
// @Summary      Update the collection webpage
// @Description  Overwrites the contract-level webpage URI
// @Accept       json
// @Produce      json
// @Tags         Admin
// @Param        SetWebpageRequest  body      SetWebpageRequestBody  True  "New webpage URI"
// @Success      200                {object}  WebpageResponse
// @Failure      400                {object}  responses.ErrorResponse
// @Failure      401                {object}  responses.ErrorResponse
// @Router       /v2/admin/webpage [put]
// @Security     OAuth2Password
func (controller *WebpageController) SetWebpage(c echo.Context) error {
	reqBody := SetWebpageRequestBody{}
	if err := c.Bind(&reqBody); err != nil {
		c.Logger().Errorf("Failed to load webpage request body: error: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&reqBody); err != nil {
		c.Logger().Errorf("Invalid webpage request body: error: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if err := controller.svc.SetWebpageURI(c.Request().Context(), reqBody.URI); err != nil {
		c.Logger().Errorf("Failed to update webpage uri: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	return c.JSON(http.StatusOK, &WebpageResponse{URI: reqBody.URI})
}
