package adminapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/webserver"
)

// orderRow is the flat export form of an order
type orderRow struct {
	ID          string `csv:"id"`
	Date        string `csv:"date"`
	ProductName string `csv:"product_name"`
	Size        string `csv:"size"`
	Quantity    int    `csv:"quantity"`
	Price       string `csv:"price"`
	LineTotal   string `csv:"line_total"`
	ImageURL    string `csv:"image_url"`
	CheckoutID  string `csv:"checkout_id"`
}

var exportHeader = []string{"ID", "Date", "Product", "Size", "Quantity", "Price", "Line Total", "Image", "Checkout"}

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/export", exportOrders)
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	orders, total, err := GetAppContext(c).Orders().Page(c.Request().Context(), page, pageSize)
	if err != nil {
		zap.L().Error("query orders error", zap.Error(err), zap.String("namespace", "admin"))
		return paged(c, []domain.Order{}, 0, page, pageSize)
	}
	return paged(c, orders, total, page, pageSize)
}

func toOrderRows(orders []domain.Order, loc *time.Location) []*orderRow {
	rows := make([]*orderRow, 0, len(orders))
	for _, o := range orders {
		row := &orderRow{
			ID:          o.ID,
			Date:        o.Date.In(loc).Format(time.RFC3339),
			ProductName: o.ProductName,
			Size:        o.Size,
			Quantity:    o.Quantity,
			LineTotal:   strconv.FormatFloat(o.LineTotal(), 'f', 2, 64),
			ImageURL:    o.ImageURL,
			CheckoutID:  o.CheckoutID,
		}
		if o.Price != nil {
			row.Price = strconv.FormatFloat(*o.Price, 'f', 2, 64)
		}
		rows = append(rows, row)
	}
	return rows
}

func exportOrders(c echo.Context) error {
	appCtx := GetAppContext(c)
	orders, err := appCtx.Orders().List(c.Request().Context())
	if err != nil {
		zap.L().Error("export orders error", zap.Error(err), zap.String("namespace", "admin"))
		orders = nil
	}
	rows := toOrderRows(orders, appCtx.Location())
	stamp := time.Now().In(appCtx.Location()).Format("20060102")

	switch format := c.QueryParam("format"); format {
	case "", "csv":
		c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=orders-%s.csv", stamp))
		c.Response().WriteHeader(http.StatusOK)
		return gocsv.Marshal(rows, c.Response())
	case "xlsx":
		f := excelize.NewFile()
		sheet := "Sheet1"
		for i, h := range exportHeader {
			f.SetCellValue(sheet, cellName(i, 1), h)
		}
		for r, row := range rows {
			values := []interface{}{row.ID, row.Date, row.ProductName, row.Size, row.Quantity,
				row.Price, row.LineTotal, row.ImageURL, row.CheckoutID}
			for i, v := range values {
				f.SetCellValue(sheet, cellName(i, r+2), v)
			}
		}
		c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=orders-%s.xlsx", stamp))
		c.Response().WriteHeader(http.StatusOK)
		return f.Write(c.Response())
	default:
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", "Format must be csv or xlsx", format)
	}
}

// cellName maps a zero-based column and one-based row to A1 notation
func cellName(col, row int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name + strconv.Itoa(row)
}
