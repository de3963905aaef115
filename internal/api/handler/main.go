package handler

import (
	"net/http"

	"github.com/loobinsk/virusq/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🦠")
	})

	authentication, err := do.Invoke[*services.Authentication](cfg.Container)
	if err != nil {
		return nil, err
	}

	routesAPIv1 := r.Group("/api/v1")
	{
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})
		routesAPIv1.Use(cors)

		a := groupAccount{cfg.Container}

		// bot-only service endpoints, guarded by the bot JWT
		routesAPIv1Bot := routesAPIv1.Group("/account")
		routesAPIv1Bot.Use(AuthnBot(authentication))
		{
			routesAPIv1Bot.POST("/registration", a.Registration)
			routesAPIv1Bot.POST("/setInactive", a.SetInactive)
			routesAPIv1Bot.POST("/setActive", a.SetActive)
		}

		routesAPIv1Service := routesAPIv1.Group("/service")
		routesAPIv1Service.Use(AuthnBot(authentication))
		{
			s := groupService{cfg.Container}
			routesAPIv1Service.GET("/stats", s.Stats)
			routesAPIv1Service.GET("/referralLinks", s.GetReferralLinks)
			routesAPIv1Service.POST("/referralLinks", s.CreateReferralLink)
			routesAPIv1Service.GET("/referralLinks/:id/stats", s.GetReferralLinkStats)
			routesAPIv1Service.POST("/referralLinks/:id/setActive", s.SetReferralLinkActive)
			routesAPIv1Service.POST("/bonusTasks", s.CreateBonusTask)
			routesAPIv1Service.POST("/bonusTasks/delete", s.DeleteBonusTask)
		}

		routesAPIv1.POST("/account/login", a.Login)

		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.
		routesAPIv1.GET("", Hello)
		routesAPIv1.GET("/account/me", a.Me)

		f := groupFarming{cfg.Container}
		routesAPIv1.POST("/farming/start", f.Start)
		routesAPIv1.POST("/farming/claim", f.Claim)

		g := groupGame{cfg.Container}
		routesAPIv1.POST("/game/start", g.Start)
		routesAPIv1.POST("/game/finish", g.Finish)

		d := groupDailyRewards{cfg.Container}
		routesAPIv1.GET("/rewards/daily", d.GetAll)
		routesAPIv1.GET("/rewards/daily/current", d.GetCurrent)
		routesAPIv1.POST("/rewards/daily/claim", d.Claim)

		b := groupBonusTasks{cfg.Container}
		routesAPIv1.GET("/bonusTasks", b.GetUncompleted)
		routesAPIv1.POST("/bonusTasks/claim", b.Claim)

		rf := groupReferrals{cfg.Container}
		routesAPIv1.GET("/referrals/stats", rf.GetStats)
		routesAPIv1.POST("/referrals/claimProfit", rf.ClaimProfit)

		rk := groupRanking{cfg.Container}
		routesAPIv1.GET("/ranking/me", rk.Me)
		routesAPIv1.GET("/ranking/chunk", rk.Chunk)
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
