package handlers

import (
	"github.com/SscSPs/student_savings_app/cmd/docs"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/SscSPs/student_savings_app/internal/middleware"
	"github.com/SscSPs/student_savings_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return err
	}
	auth := newAuthHandler(services.Auth, services.Directory)
	registerAuthRoutes(r, auth, loginLimiter)

	setupAPIV1Routes(r, cfg, services, auth)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group. Each dashboard gets its own
// role-restricted group under the same prefix.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	auth *authHandler,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	v1.GET("/me", auth.me)

	students := newStudentHandler(services.Ledger, services.Directory)
	directory := newDirectoryHandler(services.Directory)

	staffOnly := v1.Group("", middleware.RequireRole(domain.RoleStaff))
	registerTransactionRoutes(staffOnly, newTransactionHandler(services.Ledger, cfg.ReportLocation))

	studentOnly := v1.Group("", middleware.RequireRole(domain.RoleStudent))
	registerStudentSelfRoutes(studentOnly, students)

	staffOrAdmin := v1.Group("", middleware.RequireRole(domain.RoleStaff, domain.RoleAdmin))
	registerStudentLookupRoutes(staffOrAdmin, students)
	staffOrAdmin.GET("/classes", directory.listClasses)

	adminOnly := v1.Group("", middleware.RequireRole(domain.RoleAdmin))
	registerDirectoryRoutes(adminOnly, directory)
	registerReportingRoutes(adminOnly, newReportingHandler(services.Ledger, cfg.ReportLocation))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
