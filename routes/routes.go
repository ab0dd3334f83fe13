package routes

import (
	"time"

	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/controllers"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.GetAuthController(s)
	userCtl := controllers.GetUserController(s)
	inviteCtl := controllers.GetInviteController(s)
	checkoutCtl := controllers.NewCheckoutController(s)
	wheelchairCtl := controllers.NewWheelchairController(s)
	txCtl := controllers.NewTransactionLogController(s)
	adminWcCtl := controllers.NewAdminWheelchairController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.AppSess, s.Repo, a.Config)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)
	listCache := cache.New(10*time.Second, time.Minute)

	// ------------------------------
	// 账号(邮箱密码 + 邀请注册)
	// ------------------------------
	auth := r.Group("/auth")
	{
		// 登录接口限流挡爆破
		auth.POST("/login", app.RateLimit(rate.Every(time.Second), 5), authCtl.Login)
		auth.POST("/register", authCtl.Register)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.GET("/whoami", authCtl.WhoAmI)
		authed.POST("/logout", authCtl.Logout)
	}

	// ------------------------------
	// 通行密钥(可选的第二条登录路径)
	// ------------------------------
	wa := r.Group("/webauthn")
	{
		wa.POST("/login/begin", s.BeginLogin)
		wa.POST("/login/finish", s.FinishLogin)
	}
	creds := r.Group("/api/credentials", authMW, seenMW)
	{
		creds.POST("/add/begin", s.BeginAddCredential)
		creds.POST("/add/finish", s.FinishAddCredential)
	}

	// ------------------------------
	// 清单(登录可见)
	// ------------------------------
	items := r.Group("/api/wheelchairs", authMW, seenMW)
	{
		items.GET("", app.CacheGET(listCache, 10*time.Second), wheelchairCtl.List) // ?q=&page=&size=
	}

	// ------------------------------
	// 入出流程(逐步提交的弹窗状态)
	// ------------------------------
	co := r.Group("/api/checkout", authMW, seenMW)
	{
		co.POST("/start", checkoutCtl.Start)
		co.GET("", checkoutCtl.Current)
		co.DELETE("", checkoutCtl.Cancel)
		co.POST("/floor", checkoutCtl.ChooseFloor)
		co.POST("/action", checkoutCtl.ChooseAction)
		co.POST("/confirm", checkoutCtl.Confirm)
	}

	// ------------------------------
	// 管理视图(流水 / 台账编辑 / 邀请)
	// ------------------------------
	admin := r.Group("/api/admin", authMW, adminMW)
	{
		admin.GET("/transactions", txCtl.List) // ?type=&q=&from=&to=&page=&size=

		admin.POST("/wheelchairs", adminWcCtl.Create)
		admin.GET("/wheelchairs/:serial", adminWcCtl.Get)
		admin.PUT("/wheelchairs/:serial", adminWcCtl.Update)
		admin.DELETE("/wheelchairs/:serial", adminWcCtl.Delete)

		admin.POST("/invites", inviteCtl.CreateInvite)
	}

	// ------------------------------
	// 用户管理(仅管理员)
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", userCtl.ListUsers) // ?q=&page=&size=
		users.GET("/:id", userCtl.GetUser)
		users.POST("", userCtl.CreateUser)
		users.PUT("/:id/admin", userCtl.SetAdmin)
		users.DELETE("/:id", userCtl.DeleteUser)
	}
}
