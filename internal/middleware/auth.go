package middleware

import (
	"net/http"
	"strings"

	"Park_Helper/internal/pkg"
	"Park_Helper/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const ContextMemberIDKey = "member_id"

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": pkg.Message(pkg.KindUnauthorized)})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": pkg.Message(pkg.KindUnauthorized)})
			c.Abort()
			return
		}

		tokenStr := parts[1]
		memberRep := &redis.MemberRepository{}

		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": pkg.Message(pkg.KindUnauthorized)})
			c.Abort()
			return
		}

		// redis校验是否是当前会话的token
		originToken, err := memberRep.GetMemberToken(claims.MemberID)
		if err != nil || originToken != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "账号已在其他地方登录"})
			c.Abort()
			return
		}

		// 校验通过后更新过期时间
		if err = memberRep.ExtendMemberToken(claims.MemberID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": pkg.Message(pkg.KindInternal)})
			return
		}

		// 注入 member_id
		c.Set(ContextMemberIDKey, claims.MemberID)
		c.Next()
	}
}
