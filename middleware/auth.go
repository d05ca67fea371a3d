package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"coachbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// CustomerAuthMiddleware authenticates the calling customer from a Bearer
// token and sets "customerID" on the request context. The token hash is
// checked against the auth cache; a cache outage degrades to accepting any
// structurally valid token rather than locking everyone out.
func CustomerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		ctx := context.Background()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		customerID, err := utils.ExtractCustomerID(tokenString)
		if err != nil || customerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + customerID

		authCache := utils.GetAuthCacheClient()
		if authCache == nil {
			log.Printf("WARNING: Auth cache client not available. Accepting validated token without session check.")
			c.Set("customerID", customerID)
			c.Next()
			return
		}

		cachedHash, err := authCache.Get(ctx, cacheKey).Result()
		if err == redis.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired",
				"code":  0,
			})
			return
		}
		if err != nil {
			log.Printf("WARNING: Error retrieving auth cache key: %v. Accepting validated token.", err)
			c.Set("customerID", customerID)
			c.Next()
			return
		}
		if cachedHash != computedHash {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Token mismatch",
				"code":  0,
			})
			return
		}

		// Sliding session: refresh the TTL on every authenticated request.
		_ = authCache.Expire(ctx, cacheKey, time.Hour).Err()

		c.Set("customerID", customerID)
		c.Next()
	}
}
