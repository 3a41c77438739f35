package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := IssueToken("secret", Claims{SessionID: "abc", Username: "brave-lynx"})
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseToken("secret", tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.SessionID != "abc" || claims.Username != "brave-lynx" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	good, err := IssueToken("secret", Claims{SessionID: "abc"})
	if err != nil {
		t.Fatal(err)
	}
	noSid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "x"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": "abc", "exp": 1}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]struct{ secret, value string }{
		"wrong secret": {"other", good},
		"garbage":      {"secret", "Bearer not.a.token"},
		"no session":   {"secret", noSid},
		"expired":      {"secret", expired},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseToken(tt.secret, tt.value); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/game", JwtAuthMiddleware("secret"), func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.SessionID)
	})
	return r
}

func TestMiddleware(t *testing.T) {
	r := newRouter()
	tok, err := IssueToken("secret", Claims{SessionID: "s-1"})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/game", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "s-1" {
		t.Errorf("authorised request = %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/game", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Errorf("anonymous request = %d %q", w.Code, w.Header().Get("Location"))
	}

	req = httptest.NewRequest(http.MethodGet, "/game", nil)
	req.Header.Set("HX-Request", "true")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized || w.Header().Get("HX-Redirect") != "/" {
		t.Errorf("htmx request = %d %q", w.Code, w.Header().Get("HX-Redirect"))
	}
}
