package integration_tests

import (
	"encoding/json"
	"log"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/avatarlabs/minthub.go/common"
	"github.com/avatarlabs/minthub.go/controllers"
	"github.com/avatarlabs/minthub.go/lib/responses"
	"github.com/avatarlabs/minthub.go/lib/service"
	"github.com/avatarlabs/minthub.go/oracle"
	"github.com/avatarlabs/minthub.go/payment"
)

const (
	testStablecoin     = "0x3333333333333333333333333333333333333333"
	testStablecoinFeed = "0x00000000000000000000000000000000000000F2"
)

type AdminTestSuite struct {
	TestSuite
	service   *service.MinthubService
	oracle    *oracle.MockOracle
	collector *payment.MockCollector
}

func (suite *AdminTestSuite) SetupSuite() {
	suite.oracle = oracle.NewMockOracle()
	suite.oracle.SetQuote(ethcommon.HexToAddress(testNativeFeed), nativeQuote())
	suite.collector = payment.NewMockCollector()
	svc, err := MinthubTestServiceInit(suite.oracle, suite.collector)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.initEcho(svc)
}

func (suite *AdminTestSuite) TearDownTest() {
	assert.NoError(suite.T(), clearTable(suite.service, "items"))
	assert.NoError(suite.T(), clearTable(suite.service, "price_feeds"))
	assert.NoError(suite.T(), resetFeeState(suite.service))
}

func (suite *AdminTestSuite) addTokenSupport(token string) *httptest.ResponseRecorder {
	return suite.request(http.MethodPost, "/v2/admin/tokens", token, &controllers.AddTokenSupportRequestBody{
		Instrument: testStablecoin,
		Feed:       testStablecoinFeed,
	})
}

func (suite *AdminTestSuite) TestAddTokenSupportRequiresOwner() {
	rec := suite.addTokenSupport("")
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)

	// Auth rejections carry the catalog body, not echo's default one.
	errResp := &responses.ErrorResponse{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(errResp))
	assert.Equal(suite.T(), responses.UnauthorizedError.Code, errResp.Code)
	assert.Equal(suite.T(), responses.UnauthorizedError.Message, errResp.Message)

	rec = suite.addTokenSupport("wrong-token")
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *AdminTestSuite) TestAddTokenSupportAndMint() {
	// A 1 USD stablecoin with 8 feed decimals and 6 token decimals.
	suite.oracle.SetQuote(ethcommon.HexToAddress(testStablecoinFeed), oracle.Quote{
		Price:     big.NewInt(1_00000000),
		Decimals:  8,
		UpdatedAt: nativeQuote().UpdatedAt,
	})
	suite.collector.SetTokenDecimals(ethcommon.HexToAddress(testStablecoin), 6)

	rec := suite.addTokenSupport(testAdminToken)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	feedResp := &controllers.FeedResponse{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(feedResp))
	assert.Equal(suite.T(), ethcommon.HexToAddress(testStablecoinFeed).Hex(), feedResp.Feed)

	// The registered instrument is readable back through the registry.
	rec = suite.request(http.MethodGet, "/v2/feeds/"+testStablecoin, "", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	// Minting with the registered stablecoin: 10_000_000 base units at six
	// decimals is 10 tokens, worth 10 USD, exactly the fee.
	body := nativeMintBody("Stable", "Payer")
	body.Instrument = testStablecoin
	body.Amount = "10000000"
	body.DepositTxRef = ""
	item := suite.mintReq(body)
	assert.Equal(suite.T(), common.InstrumentKindToken, item.InstrumentKind)
	assert.Equal(suite.T(), "10", item.UsdValuePaid)
}

func (suite *AdminTestSuite) TestAddTokenSupportRejectsUnknownFeed() {
	rec := suite.request(http.MethodPost, "/v2/admin/tokens", testAdminToken, &controllers.AddTokenSupportRequestBody{
		Instrument: testStablecoin,
		Feed:       "0x00000000000000000000000000000000000000F9",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *AdminTestSuite) TestAddTokenSupportRejectsZeroInstrument() {
	rec := suite.request(http.MethodPost, "/v2/admin/tokens", testAdminToken, &controllers.AddTokenSupportRequestBody{
		Instrument: ethcommon.Address{}.Hex(),
		Feed:       testStablecoinFeed,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *AdminTestSuite) TestNativeFeedEndpoint() {
	rec := suite.request(http.MethodGet, "/v2/feeds/native", "", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	feedResp := &controllers.FeedResponse{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(feedResp))
	assert.Equal(suite.T(), ethcommon.HexToAddress(testNativeFeed).Hex(), feedResp.Feed)
	assert.Equal(suite.T(), common.NativeInstrument, feedResp.Instrument)
}

func (suite *AdminTestSuite) TestCollectionMetadata() {
	rec := suite.request(http.MethodPut, "/v2/admin/webpage", testAdminToken, &controllers.SetWebpageRequestBody{
		URI: "https://avatars.example.com",
	})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.request(http.MethodGet, "/v2/collection", "", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	coll := &controllers.CollectionResponse{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(coll))
	assert.Equal(suite.T(), "Avatar NFT Me", coll.Name)
	assert.Equal(suite.T(), "AVME", coll.Symbol)
	assert.Equal(suite.T(), "https://avatars.example.com", coll.WebpageURI)
}

func (suite *AdminTestSuite) TestWebpageUpdate() {
	rec := suite.request(http.MethodPut, "/v2/admin/webpage", "", &controllers.SetWebpageRequestBody{
		URI: "https://avatars.example.com",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)

	rec = suite.request(http.MethodPut, "/v2/admin/webpage", testAdminToken, &controllers.SetWebpageRequestBody{
		URI: "https://avatars.example.com",
	})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.request(http.MethodGet, "/v2/webpage", "", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	webpage := &controllers.WebpageResponse{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(webpage))
	assert.Equal(suite.T(), "https://avatars.example.com", webpage.URI)

	rec = suite.request(http.MethodGet, "/v2/webpage/qr", "", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "image/png", rec.Header().Get(echo.HeaderContentType))
}

func (suite *AdminTestSuite) TestWebpageRejectsMalformedURI() {
	rec := suite.request(http.MethodPut, "/v2/admin/webpage", testAdminToken, &controllers.SetWebpageRequestBody{
		URI: "not-a-uri",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func TestAdminSuite(t *testing.T) {
	suite.Run(t, new(AdminTestSuite))
}
