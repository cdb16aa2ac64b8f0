package middleware

import (
	"errors"
	"strings"

	autherrors "go-hostel-leave/internal/auth/errors"
	"go-hostel-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates an HS256 access token from the Authorization
// header or the access_token cookie and puts user_id, user_name and role
// on the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrUnauthorized.HTTPStatus, autherrors.ErrUnauthorized.Code, autherrors.ErrUnauthorized.Message)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, autherrors.ErrInvalidToken
			}
			return key, nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			abortWith(c, errObj.HTTPStatus, errObj.Code, errObj.Message)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, autherrors.ErrInvalidToken.HTTPStatus, "INVALID_TOKEN", "Invalid token claims")
			return
		}

		if typ, _ := claims["token_type"].(string); typ != "" && typ != "access" {
			abortWith(c, autherrors.ErrInvalidToken.HTTPStatus, "INVALID_TOKEN", "Refresh token cannot be used here")
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			abortWith(c, autherrors.ErrInvalidToken.HTTPStatus, "INVALID_TOKEN", "User ID not found in token")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role == "" {
			abortWith(c, autherrors.ErrInvalidToken.HTTPStatus, "INVALID_TOKEN", "Role not found in token")
			return
		}

		name, _ := claims["name"].(string)

		c.Set("user_id", userID)
		c.Set("user_name", name)
		c.Set("role", role)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("role")
		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}

		abortWith(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message)
	}
}

func abortWith(c *gin.Context, status int, code, message string) {
	response.Abort(c, status, code, message)
}
