package echoapi

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/user"
)

var staticExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".svg": true, ".ico": true, ".css": true, ".js": true, ".map": true,
}

// sessionMiddleware puts the claims of a valid session cookie in the context. Invalid cookies are ignored.
func sessionMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if cookie, err := ctx.Cookie(cookieSession); err == nil && cookie.Value != "" {
				if claims, err := parseToken(cookie.Value, conf.SecretKey); err == nil {
					ctx.Set(contextClaimsKey, claims)
				}
			}
			return next(ctx)
		}
	}
}

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if claims, ok := getContextClaims(ctx); ok && claims.Role == user.RoleAdmin {
				return next(ctx)
			}
			return errUnauthorized
		}
	}
}

func isPublicPath(p string) bool {
	for _, prefix := range []string{"/login", "/api", "/_next", "/logout"} {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	switch p {
	case "/favicon.ico", "/robots.txt", "/sitemap.xml":
		return true
	}
	return staticExtensions[strings.ToLower(path.Ext(p))]
}

// safeNext only allows local redirects.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}

// pageGuardMiddleware sends visitors without a session to the login page, and logged in users away from it.
func pageGuardMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			p := req.URL.Path
			_, authed := getContextClaims(ctx)

			if strings.HasPrefix(p, "/login") {
				if !authed {
					return next(ctx)
				}
				return ctx.Redirect(http.StatusTemporaryRedirect, safeNext(ctx.QueryParam("next")))
			}
			if isPublicPath(p) || authed {
				return next(ctx)
			}

			target := p
			if req.URL.RawQuery != "" {
				target += "?" + req.URL.RawQuery
			}
			q := make(url.Values)
			q.Set("next", target)
			return ctx.Redirect(http.StatusTemporaryRedirect, "/login?"+q.Encode())
		}
	}
}

func logout(conf *core.Config) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		clearAuthCookies(ctx, conf)
		return ctx.Redirect(http.StatusFound, "/")
	}
}
