package middleware

import (
	"strings"

	"dispatch-service/src/pkg/token"
	"dispatch-service/src/pkg/utils"

	httpError "dispatch-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const userLocalKey = "auth-user"

// VerifyBearer validates the Authorization header and stashes the claim
// metadata in fiber locals for controllers.
func VerifyBearer(config *viper.Viper) fiber.Handler {
	secret := []byte(config.GetString("jwt.secret"))

	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return utils.ResponseError(httpError.NewUnauthorized(), ctx)
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !parsed.Valid {
			return utils.ResponseError(httpError.NewUnauthorized(), ctx)
		}

		metadata := token.Metadata{}
		if m, ok := claims["metadata"].(map[string]interface{}); ok {
			metadata.UserID, _ = m["user_id"].(string)
			metadata.FullName, _ = m["full_name"].(string)
			metadata.Role, _ = m["role"].(string)
		}
		ctx.Locals(userLocalKey, &token.Claim{Metadata: metadata})

		return ctx.Next()
	}
}

func GetUser(ctx *fiber.Ctx) *token.Claim {
	if claim, ok := ctx.Locals(userLocalKey).(*token.Claim); ok {
		return claim
	}
	return &token.Claim{}
}
