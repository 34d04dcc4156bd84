package responses

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"

	"github.com/avatarlabs/minthub.go/common"
	"github.com/avatarlabs/minthub.go/payment"
	"github.com/avatarlabs/minthub.go/pricing"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var UnauthorizedError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "unauthorized",
	HttpStatusCode: 401,
}

var UnsupportedInstrumentError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "no price feed registered for this payment instrument",
	HttpStatusCode: 400,
}

var InvalidFeedError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "price feed does not resolve",
	HttpStatusCode: 400,
}

var StaleOrInvalidQuoteError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "oracle quote is stale or invalid",
	HttpStatusCode: 400,
}

var ArithmeticOverflowError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "payment value exceeds representable range",
	HttpStatusCode: 400,
}

var ZeroPaymentError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "tendered amount must be greater than zero",
	HttpStatusCode: 400,
}

var InvalidProfileError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "profile is missing required fields",
	HttpStatusCode: 400,
}

var InsufficientPaymentError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "payment does not cover the required mint fee",
	HttpStatusCode: 400,
}

var PaymentCollectionError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "payment collection failed",
	HttpStatusCode: 400,
}

var DuplicateProfileError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "an item with this profile already exists",
	HttpStatusCode: 400,
}

var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "not found",
	HttpStatusCode: 404,
}

// Lookup maps an engine rejection to its wire representation. The second
// return is false for errors outside the taxonomy, which callers should
// treat as internal.
func Lookup(err error) (ErrorResponse, bool) {
	switch {
	case errors.Is(err, common.ErrUnsupportedInstrument):
		return UnsupportedInstrumentError, true
	case errors.Is(err, common.ErrInvalidFeed):
		return InvalidFeedError, true
	case errors.Is(err, common.ErrStaleOrInvalidQuote):
		return StaleOrInvalidQuoteError, true
	case errors.Is(err, common.ErrZeroPayment):
		return ZeroPaymentError, true
	case errors.Is(err, common.ErrInvalidProfile):
		return InvalidProfileError, true
	case errors.Is(err, common.ErrInsufficientPayment):
		return InsufficientPaymentError, true
	case errors.Is(err, common.ErrDuplicateProfile):
		return DuplicateProfileError, true
	case errors.Is(err, common.ErrNotFound):
		return NotFoundError, true
	case errors.Is(err, payment.ErrCollectionFailed):
		// Collection failures carry the underlying reason verbatim
		// (e.g. "ERC20: insufficient allowance").
		resp := PaymentCollectionError
		resp.Message = err.Error()
		return resp, true
	case errors.Is(err, pricing.ErrInvalidQuote):
		return StaleOrInvalidQuoteError, true
	case errors.Is(err, pricing.ErrNegativeAmount):
		return ZeroPaymentError, true
	case errors.Is(err, pricing.ErrArithmeticOverflow):
		return ArithmeticOverflowError, true
	}
	return GeneralServerError, false
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("RequestID", c.Response().Header().Get(echo.HeaderXRequestID))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		// Auth middleware rejections come through as bare HTTPErrors;
		// give them the catalog body so all errors share one shape.
		if he.Code == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, UnauthorizedError)
			return
		}
		c.JSON(he.Code, he.Message)
		return
	}
	if resp, ok := Lookup(err); ok {
		c.JSON(resp.HttpStatusCode, resp)
		return
	}
	c.JSON(http.StatusInternalServerError, GeneralServerError)
}
