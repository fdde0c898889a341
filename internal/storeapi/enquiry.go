package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pskitchenware/storefront/internal/app"
	"github.com/pskitchenware/storefront/internal/checkout"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/webserver"
)

func registerEnquiryRoutes() {
	webserver.StorePOST("/enquiry", sendEnquiry)
}

func sendEnquiry(c echo.Context) error {
	var enquiry domain.Enquiry
	if err := c.Bind(&enquiry); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse enquiry", err.Error())
	}
	enquiry.Name = strings.TrimSpace(enquiry.Name)
	enquiry.Phone = strings.TrimSpace(enquiry.Phone)
	enquiry.Query = strings.TrimSpace(enquiry.Query)
	if err := validate.Struct(enquiry); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ENQUIRY", "Please check your details", checkout.FieldErrors(err))
	}

	appCtx := appContext(c)
	res := appCtx.Notifier().SendEnquiry(c.Request().Context(), enquiry)
	appCtx.Bus().Publish(app.TopicEnquirySent, res.Success)
	if !res.Success {
		return fail(c, http.StatusServiceUnavailable, "EMAIL_FAILED", res.Message, nil)
	}
	return ok(c, res)
}
