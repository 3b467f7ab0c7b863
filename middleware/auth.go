package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/popreach/popreach/config"
	"github.com/popreach/popreach/models"
	"github.com/popreach/popreach/utils"
)

// parseBearerToken validates the Authorization header and returns the
// token's claims.
func parseBearerToken(c *gin.Context) (jwt.MapClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("missing authorization header")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, fmt.Errorf("invalid bearer token format")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("jwt secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token validation failed")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// ShopAuthMiddleware authenticates a merchant session token and threads
// the shop domain into the request context. Every admin handler reads the
// shop from context, never from ambient state.
func ShopAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearerToken(c)
		if err != nil {
			utils.LogError("Shop auth failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please complete installation to access the app"})
			c.Abort()
			return
		}

		shop, ok := claims["shop"].(string)
		if !ok || shop == "" {
			utils.LogError("Shop claim missing from token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
			c.Abort()
			return
		}

		var shopRow models.Shop
		if err := config.DB.Where("domain = ?", shop).First(&shopRow).Error; err != nil {
			utils.LogError("Unknown shop in token: %s", shop)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Shop not installed"})
			c.Abort()
			return
		}
		if !shopRow.IsActive {
			utils.LogError("Inactive shop attempted access: %s", shop)
			c.JSON(http.StatusForbidden, gin.H{"error": "Shop is deactivated"})
			c.Abort()
			return
		}

		c.Set("shop", shop)
		utils.LogDebug("Shop %s authenticated", shop)
		c.Next()
	}
}

// OpsAuthMiddleware authenticates an ops-console operator token
func OpsAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearerToken(c)
		if err != nil {
			utils.LogError("Ops auth failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		adminID, ok := claims["admin_id"].(float64)
		if !ok {
			utils.LogError("Admin ID not found in token claims")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		var admin models.Admin
		if err := config.DB.First(&admin, uint(adminID)).Error; err != nil {
			utils.LogError("Admin not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin not found"})
			c.Abort()
			return
		}
		if !admin.IsActive {
			utils.LogError("Inactive admin attempted access: %d", admin.ID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin account is inactive"})
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Next()
	}
}
