package integration_tests

import (
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/avatarlabs/minthub.go/common"
	"github.com/avatarlabs/minthub.go/controllers"
	"github.com/avatarlabs/minthub.go/lib/service"
	"github.com/avatarlabs/minthub.go/oracle"
	"github.com/avatarlabs/minthub.go/payment"
)

type EventStreamTestSuite struct {
	TestSuite
	service   *service.MinthubService
	oracle    *oracle.MockOracle
	collector *payment.MockCollector
}

func (suite *EventStreamTestSuite) SetupSuite() {
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

func (suite *EventStreamTestSuite) TearDownTest() {
	assert.NoError(suite.T(), clearTable(suite.service, "items"))
	assert.NoError(suite.T(), resetFeeState(suite.service))
}

func (suite *EventStreamTestSuite) TestStreamDeliversMintEvents() {
	server := httptest.NewServer(suite.echo)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v2/events"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(suite.T(), err)
	defer ws.Close()

	assert.NoError(suite.T(), ws.SetReadDeadline(time.Now().Add(5*time.Second)))

	// The stream opens with a keepalive.
	wrapper := controllers.StreamEventWrapper{}
	assert.NoError(suite.T(), ws.ReadJSON(&wrapper))
	assert.Equal(suite.T(), "keepalive", wrapper.Type)

	suite.mintReq(nativeMintBody("Event", "Stream"))

	assert.NoError(suite.T(), ws.ReadJSON(&wrapper))
	assert.Equal(suite.T(), common.EventMintIssued, wrapper.Type)
	payload, ok := wrapper.Payload.(map[string]interface{})
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), float64(1), payload["id"])
}

func TestEventStreamSuite(t *testing.T) {
	suite.Run(t, new(EventStreamTestSuite))
}
