package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarlabs/minthub.go/lib/service"
)

// CollectionController : Collection metadata controller struct
type CollectionController struct {
	svc *service.MinthubService
}

func NewCollectionController(svc *service.MinthubService) *CollectionController {
	return &CollectionController{svc: svc}
}

type CollectionResponse struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	WebpageURI  string `json:"webpage_uri"`
}

// GetCollection godoc
// @Summary      Retrieve collection metadata
// @Description  Returns the collection name, symbol, description and webpage
// @Accept       json
// @Produce      json
// @Tags         Collection
// @Success      200  {object}  CollectionResponse
// @Router       /v2/collection [get]
func (controller *CollectionController) GetCollection(c echo.Context) error {
	uri, err := controller.svc.WebpageURI(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &CollectionResponse{
		Name:        controller.svc.Config.CollectionName,
		Symbol:      controller.svc.Config.CollectionSymbol,
		Description: controller.svc.Config.CollectionDescription,
		WebpageURI:  uri,
	})
}
