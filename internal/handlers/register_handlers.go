package handlers

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/nestegg-app/nestegg_backend/internal/core/domain"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"github.com/nestegg-app/nestegg_backend/internal/middleware"
	"github.com/nestegg-app/nestegg_backend/internal/platform/config"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()
	r.Use(cors.Default())

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerCurrencyRoutes(v1, services.Currency, services.Resolver, newResolveRateLimiter(cfg))
	registerExchangeRateRoutes(v1, services.ExchangeRate, services.Refresh)
	registerBackfillRoutes(v1, services.Backfill)
	registerNetWorthRoutes(v1, services.NetWorth)
}

// registerCustomValidators installs the binding validators shared by request
// DTOs.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			return domain.IsValidCurrencyCode(fl.Field().String())
		})
	}
}

// newResolveRateLimiter builds the per-IP limiter for the resolve route,
// which proxies requests to the external provider.
func newResolveRateLimiter(cfg *config.Config) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(fmt.Sprintf("%d-M", cfg.ResolverRateLimit))
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("30-M")
	}
	store := memory.NewStore()
	return middleware.RateLimit(limiter.New(store, rate))
}
