package adminapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pskitchenware/storefront/config"
	"github.com/pskitchenware/storefront/internal/webserver"
)

const tokenTTL = 24 * time.Hour

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func registerAuthRoutes() {
	webserver.OpenPOST("/login", login)
	webserver.OpenPOST("/logout", logout)
	webserver.ApiGET("/session", currentSession)
}

// checkCredential compares against the configured admin. The configured
// password may be a bcrypt hash or plaintext.
func checkCredential(admin config.AdminConfig, username, password string) bool {
	if admin.Username == "" || admin.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) == 1
	var passOK bool
	if strings.HasPrefix(admin.Password, "$2") {
		passOK = bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(admin.Password)) == 1
	}
	return userOK && passOK
}

func issueToken(secret, username string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    "storefront",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	})
	return token.SignedString([]byte(secret))
}

func authCookie(c echo.Context, value string, maxAge int) *http.Cookie {
	cfg := GetAppContext(c).Config()
	cookie := &http.Cookie{
		Name:     webserver.AuthCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   strings.HasPrefix(cfg.System.PublicHost, "https://"),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
	if maxAge > 0 {
		cookie.Expires = time.Now().Add(time.Duration(maxAge) * time.Second)
	}
	return cookie
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}
	if err := validate.Struct(payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}
	cfg := GetAppContext(c).Config()
	if !checkCredential(cfg.Admin, strings.TrimSpace(payload.Username), payload.Password) {
		zap.L().Warn("admin login failed", zap.String("username", payload.Username), zap.String("ip", c.RealIP()))
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	now := time.Now()
	token, err := issueToken(cfg.Web.Secret, cfg.Admin.Username, now)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}
	c.SetCookie(authCookie(c, token, int(tokenTTL.Seconds())))
	zap.L().Info("admin login", zap.String("username", cfg.Admin.Username), zap.String("ip", c.RealIP()))
	return ok(c, map[string]interface{}{
		"token":      token,
		"username":   cfg.Admin.Username,
		"expires_at": now.Add(tokenTTL).UTC(),
	})
}

func logout(c echo.Context) error {
	c.SetCookie(authCookie(c, "", -1))
	return ok(c, map[string]bool{"success": true})
}

func currentSession(c echo.Context) error {
	return ok(c, map[string]string{"username": GetAppContext(c).Config().Admin.Username})
}
