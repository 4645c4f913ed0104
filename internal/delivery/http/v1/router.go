package v1

import (
	"net/http"

	"devconnector-api/config"
	"devconnector-api/internal/delivery/http/middleware"
	"devconnector-api/internal/delivery/http/response"
	"devconnector-api/internal/domain"
	"devconnector-api/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC    domain.AuthUsecase
	ProfileUC domain.ProfileUsecase
	HealthUC  usecase.HealthUsecase
	Resolver  domain.IdentityResolver
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	frontendURL, release := "", false
	if deps.Config != nil {
		frontendURL, release = deps.Config.FrontendURL, deps.Config.GinMode == gin.ReleaseMode
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(frontendURL, release)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")

	if deps.HealthUC != nil {
		api.GET("/health", func(c *gin.Context) {
			status, healthy := deps.HealthUC.Check(c.Request.Context())
			code := http.StatusOK
			if !healthy {
				code = http.StatusServiceUnavailable
			}
			response.Success(c, code, status)
		})
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Resolver))
	{
		NewAuthHandler(protected, deps.AuthUC)
		NewProfileHandler(api, protected, deps.ProfileUC)
	}

	return r
}
