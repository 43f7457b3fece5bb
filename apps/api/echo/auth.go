package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/teacher"
)

const contextTokenKey = "teacherToken"

// Claims represents the authorization claims transmitted via a JWT.
// Subject carries the teacher id.
type Claims struct {
	jwt.StandardClaims
	IsAdmin bool `json:"isAdmin"`
}

func (c Claims) caller() core.Caller {
	return core.Caller{TeacherID: c.Subject, IsAdmin: c.IsAdmin}
}

type jwtAuth struct {
	conf   *core.Config
	config middleware.JWTConfig
}

func newJWTAuth(conf *core.Config) *jwtAuth {
	return &jwtAuth{
		conf: conf,
		config: middleware.JWTConfig{
			SigningKey:    conf.SecretKey,
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
	}
}

// middleware returns the JWT auth middleware; it doubles as the loggedIn guard.
func (a *jwtAuth) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.config)
}

func (a *jwtAuth) claims(t teacher.Teacher) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   t.ID,
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		IsAdmin: t.IsAdmin,
	}
}

// GenerateToken generates a signed JWT token string representing the teacher's Claims.
func (a *jwtAuth) GenerateToken(t teacher.Teacher) (string, error) {
	method := jwt.GetSigningMethod(a.config.SigningMethod)
	token := jwt.NewWithClaims(method, a.claims(t))

	ss, err := token.SignedString(a.config.SigningKey)
	return ss, errors.Wrap(err, "signing token")
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextCaller(ctx echo.Context) (core.Caller, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.Caller{}, err
	}
	return claims.caller(), nil
}
