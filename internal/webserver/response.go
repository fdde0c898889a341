package webserver

import (
	"strings"

	"github.com/labstack/echo/v4"
)

type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func OK(c echo.Context, data interface{}) error {
	return c.JSON(200, Response{Data: data})
}

func Paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(200, Response{Data: data, Meta: &Meta{Total: total, Page: page, PageSize: pageSize}})
}

func Fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{
		Code:    strings.ToUpper(strings.ReplaceAll(code, " ", "_")),
		Message: message,
		Details: details,
	})
}
