package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/webserver"
)

// DBMSTableInfo represents table metadata
type DBMSTableInfo struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
	Exists   bool   `json:"exists"`
}

type tabler interface {
	TableName() string
}

func registerDBMSRoutes() {
	webserver.ApiGET("/system/tables", ListTables)
}

// ListTables reports row counts of the storefront tables
func ListTables(c echo.Context) error {
	db := GetDB(c)
	if db == nil {
		return fail(c, http.StatusNotImplemented, "NOT_SUPPORTED", "Table stats need a SQL database", nil)
	}
	db = db.WithContext(c.Request().Context())
	tables := make([]DBMSTableInfo, 0, len(domain.Tables))
	for _, model := range domain.Tables {
		t, isTabler := model.(tabler)
		if !isTabler {
			continue
		}
		info := DBMSTableInfo{Name: t.TableName(), Exists: db.Migrator().HasTable(model)}
		if info.Exists {
			if err := db.Model(model).Count(&info.RowCount).Error; err != nil {
				return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count rows", err.Error())
			}
		}
		tables = append(tables, info)
	}
	return ok(c, tables)
}
