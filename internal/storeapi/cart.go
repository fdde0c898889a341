package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pskitchenware/storefront/internal/cart"
	"github.com/pskitchenware/storefront/internal/webserver"
)

const (
	cartSessionName = "ps-cart"
	cartSessionKey  = "items"

	// maxCartLines caps distinct line items per session
	maxCartLines = 100
)

// sessionStorage keeps the serialized cart in the server-side session
type sessionStorage struct {
	c echo.Context
}

func (s sessionStorage) Load() ([]byte, error) {
	sess, err := session.Get(cartSessionName, s.c)
	if sess == nil {
		return nil, err
	}
	v, _ := sess.Values[cartSessionKey].(string)
	if v == "" {
		return nil, nil
	}
	return []byte(v), nil
}

// Save replaces a cookie that failed to decode
func (s sessionStorage) Save(data []byte) error {
	sess, err := session.Get(cartSessionName, s.c)
	if sess == nil {
		return err
	}
	sess.Values[cartSessionKey] = string(data)
	return sess.Save(s.c.Request(), s.c.Response())
}

func loadCart(c echo.Context) *cart.Cart {
	return cart.New(sessionStorage{c: c})
}

type cartView struct {
	Items []cart.LineItem `json:"items"`
	Total float64         `json:"total"`
	Count int             `json:"count"`
}

func viewOfCart(crt *cart.Cart) cartView {
	total, _ := crt.Total().Float64()
	return cartView{Items: crt.Items(), Total: total, Count: crt.Count()}
}

type addItemPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

type updateItemPayload struct {
	Quantity int `json:"quantity"`
}

func registerCartRoutes() {
	webserver.StoreGET("/cart", getCart)
	webserver.StorePOST("/cart/items", addCartItem)
	webserver.StorePUT("/cart/items/:id", updateCartItem)
	webserver.StoreDELETE("/cart/items/:id", removeCartItem)
	webserver.StoreDELETE("/cart", clearCart)
}

// savedCart answers with the cart, or an error when the session could not
// keep the mutation
func savedCart(c echo.Context, crt *cart.Cart) error {
	if err := crt.Err(); err != nil {
		return fail(c, http.StatusInternalServerError, "CART_NOT_SAVED", "Your cart could not be saved, please try again", nil)
	}
	return ok(c, viewOfCart(crt))
}

func getCart(c echo.Context) error {
	return ok(c, viewOfCart(loadCart(c)))
}

func addCartItem(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}
	if err := cart.ValidateQuantity(payload.Quantity); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", err.Error(), nil)
	}
	product, err := appContext(c).Catalog().Product(c.Request().Context(), strings.TrimSpace(payload.ProductID))
	if err != nil {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}
	size, err := cart.SelectSize(*product, strings.TrimSpace(payload.Size))
	switch {
	case errors.Is(err, cart.ErrSizeRequired):
		return fail(c, http.StatusBadRequest, "SIZE_REQUIRED", "Please select a size", nil)
	case errors.Is(err, cart.ErrUnknownSize):
		return fail(c, http.StatusBadRequest, "UNKNOWN_SIZE", "Unknown size", payload.Size)
	case err != nil:
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	crt := loadCart(c)
	sizeName := ""
	if size != nil {
		sizeName = size.Name
	}
	if _, exists := crt.Get(cart.LineItemID(product.ID, sizeName)); !exists && crt.Len() >= maxCartLines {
		return fail(c, http.StatusConflict, "CART_FULL", "Your cart is full", maxCartLines)
	}
	if _, added := crt.Add(*product, payload.Quantity, size); !added {
		return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must be at least 1", nil)
	}
	return savedCart(c, crt)
}

func updateCartItem(c echo.Context) error {
	var payload updateItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quantity", err.Error())
	}
	crt := loadCart(c)
	if _, found := crt.Get(c.Param("id")); !found {
		return fail(c, http.StatusNotFound, "ITEM_NOT_FOUND", "Cart item not found", nil)
	}
	crt.UpdateQuantity(c.Param("id"), payload.Quantity)
	return savedCart(c, crt)
}

func removeCartItem(c echo.Context) error {
	crt := loadCart(c)
	crt.Remove(c.Param("id"))
	return savedCart(c, crt)
}

func clearCart(c echo.Context) error {
	crt := loadCart(c)
	crt.Clear()
	return savedCart(c, crt)
}
