package router

import (
	"Park_Helper/internal/handler"
	"Park_Helper/internal/middleware"
	"Park_Helper/internal/pkg"

	"github.com/gin-gonic/gin"
)

func InitRouter() *gin.Engine {
	r := gin.Default()

	// 配置邮件环境
	emailCfg := pkg.SMTPConfig{
		Host:     "smtp.qq.com",
		Port:     587,
		Username: "no-reply@qq.com",
		Password: "apple123456",
		From:     "NoReply <no-reply@example.com>",
	}

	member := handler.NewMemberHandler()
	helptx := handler.NewHelpTxHandler(emailCfg)
	batch := handler.NewBatchHandler()
	ranking := handler.NewRankingHandler()
	favorite := handler.NewFavoriteHandler()

	// 成员相关接口
	memberGroup := r.Group("/api/member")
	{
		memberGroup.POST("/register", member.Register)
		memberGroup.POST("/login", member.Login)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", member.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", member.Logout)
		authGroup.POST("/change-password", member.ChangePassword)
		authGroup.GET("/profile", member.Profile)
	}

	// 帮忙单相关接口
	helpGroup := r.Group("/api/help")
	helpGroup.Use(middleware.AuthMiddleware())
	{
		helpGroup.POST("/create", helptx.Create)
		helpGroup.GET("/:id", helptx.Get)
		helpGroup.DELETE("/:id", helptx.Delete)
		helpGroup.GET("/mine", helptx.ListMine)
		helpGroup.GET("/open", helptx.ListOpen)
		helpGroup.GET("/claimed", helptx.ListClaimed)
		helpGroup.POST("/:id/claim", helptx.Claim)
		helpGroup.POST("/unit/:unitId/cancel", helptx.Cancel)
		helpGroup.POST("/unit/:unitId/complete", helptx.Complete)
	}

	// 批量动作
	batchGroup := r.Group("/api/batch")
	batchGroup.Use(middleware.AuthMiddleware())
	{
		batchGroup.POST("/complete", batch.Complete)
		batchGroup.POST("/cancel", batch.Cancel)
	}

	// 排行榜
	rankGroup := r.Group("/api/ranking")
	rankGroup.Use(middleware.AuthMiddleware())
	{
		rankGroup.GET("/month", ranking.Month)
		rankGroup.GET("/top", ranking.Top)
	}

	// 收藏
	favoriteGroup := r.Group("/api/favorite")
	favoriteGroup.Use(middleware.AuthMiddleware())
	{
		favoriteGroup.GET("/", favorite.List)
		favoriteGroup.PUT("/", favorite.Replace)
	}

	return r
}
