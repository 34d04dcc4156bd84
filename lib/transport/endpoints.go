package transport

import (
	cache "github.com/SporkHubr/echo-http-cache"
	"github.com/labstack/echo/v4"

	"github.com/avatarlabs/minthub.go/controllers"
	"github.com/avatarlabs/minthub.go/lib/service"
)

// RegisterEndpoints binds the HTTP surface. Owner-only routes live under the
// admin group; the mint route carries the strict rate limit because it moves
// funds. Item reads are cached: issued items never change.
func RegisterEndpoints(svc *service.MinthubService, e *echo.Echo, admin *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, logMw echo.MiddlewareFunc, cacheClient *cache.Client) {
	e.GET("/health", controllers.NewHealthController().Check)

	e.POST("/v2/mint", controllers.NewMintController(svc).Mint, strictRateLimitMiddleware, logMw)

	itemCtrl := controllers.NewItemController(svc)
	e.GET("/v2/items", itemCtrl.ListItems, logMw)
	e.GET("/v2/items/:id", itemCtrl.GetItem, logMw, CreateItemCacheMiddleware(svc, cacheClient))

	e.GET("/v2/fees", controllers.NewFeeController(svc).GetFees, logMw)

	e.GET("/v2/events", controllers.NewEventStreamController(svc).StreamEvents)

	feedCtrl := controllers.NewFeedController(svc)
	e.GET("/v2/feeds/native", feedCtrl.GetNativeFeed, logMw)
	e.GET("/v2/feeds/:instrument", feedCtrl.GetFeed, logMw)

	e.GET("/v2/collection", controllers.NewCollectionController(svc).GetCollection, logMw)

	webpageCtrl := controllers.NewWebpageController(svc)
	e.GET("/v2/webpage", webpageCtrl.GetWebpage, logMw)
	e.GET("/v2/webpage/qr", webpageCtrl.GetWebpageQR, logMw)

	admin.POST("/tokens", controllers.NewAdminController(svc).AddTokenSupport)
	admin.PUT("/webpage", webpageCtrl.SetWebpage)
}
