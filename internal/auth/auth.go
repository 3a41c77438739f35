package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const (
	CookieName = "Authorization"
	claimsKey  = "claims"
)

// TokenTTL bounds how long a session cookie, and the game behind it, lives.
const TokenTTL = 24 * time.Hour

var ErrNoClaims = errors.New("no session claims on request")

// Claims identify the game session a browser belongs to.
type Claims struct {
	SessionID string
	Username  string
}

// IssueToken signs claims for the session cookie.
func IssueToken(secret string, claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":      claims.SessionID,
		"username": claims.Username,
		"exp":      time.Now().Add(TokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return "Bearer " + signed, nil
}

// ParseToken verifies a cookie value produced by IssueToken.
func ParseToken(secret, value string) (Claims, error) {
	raw := strings.TrimPrefix(value, "Bearer ")
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, err
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, errors.New("invalid token")
	}
	sid, _ := mc["sid"].(string)
	username, _ := mc["username"].(string)
	if sid == "" {
		return Claims{}, errors.New("token has no session id")
	}
	return Claims{SessionID: sid, Username: username}, nil
}

// SetCookie stores a session token on the response.
func SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(TokenTTL.Seconds()), "/", "", false, true)
}

func ClearCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// JwtAuthMiddleware rejects requests without a valid session cookie and
// sends the browser back to the landing page.
func JwtAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie == "" {
			redirectHome(c)
			return
		}
		claims, err := ParseToken(secret, cookie)
		if err != nil {
			slog.Info("Rejected session cookie", "error", err)
			ClearCookie(c)
			redirectHome(c)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the claims stored by JwtAuthMiddleware.
func GetClaims(c *gin.Context) (Claims, error) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return Claims{}, ErrNoClaims
	}
	claims, ok := v.(Claims)
	if !ok {
		return Claims{}, ErrNoClaims
	}
	return claims, nil
}

func redirectHome(c *gin.Context) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", "/")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Redirect(http.StatusFound, "/")
	c.Abort()
}
