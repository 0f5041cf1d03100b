package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/user"
)

// cookies
const (
	cookieAuth    = "sig_auth"
	cookieRole    = "sig_role"
	cookieEmail   = "sig_email"
	cookieSession = "sig_session"
)

const contextClaimsKey = "sessionClaims"

var errInvalidToken = errors.New("invalid session token")

// Claims represents the authorization claims transmitted via the session cookie.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

func GetUserClaims(usr user.User, role string, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.Email,
			ExpiresAt: now.Add(conf.Server.SessionMaxAge).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: usr.Email,
		Role:  role,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, secretKey string) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func parseToken(tokenStr, secretKey string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != middleware.AlgorithmHS256 {
			return nil, errInvalidToken
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parsing token")
	}
	if !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

func getContextClaims(ctx echo.Context) (Claims, bool) {
	if claims, ok := ctx.Get(contextClaimsKey).(*Claims); ok {
		return *claims, true
	}
	return Claims{}, false
}

func newCookie(conf *core.Config, name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   conf.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// setAuthCookies starts a session: the signed session cookie is HttpOnly, the others are read by the frontend.
func setAuthCookies(ctx echo.Context, conf *core.Config, usr user.User, role string) error {
	token, err := GenerateToken(GetUserClaims(usr, role, conf), conf.SecretKey)
	if err != nil {
		return err
	}

	maxAge := conf.Server.SessionMaxAge
	session := newCookie(conf, cookieSession, token, maxAge)
	session.HttpOnly = true

	ctx.SetCookie(newCookie(conf, cookieAuth, "1", maxAge))
	ctx.SetCookie(newCookie(conf, cookieRole, role, maxAge))
	ctx.SetCookie(newCookie(conf, cookieEmail, usr.Email, maxAge))
	ctx.SetCookie(session)
	return nil
}

func clearAuthCookies(ctx echo.Context, conf *core.Config) {
	for _, name := range []string{cookieAuth, cookieRole, cookieEmail, cookieSession} {
		c := newCookie(conf, name, "", 0)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		if name == cookieSession {
			c.HttpOnly = true
		}
		ctx.SetCookie(c)
	}
}
