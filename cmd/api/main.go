package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-equipment-loan/internal/handler"
	"go-equipment-loan/internal/middleware"
	"go-equipment-loan/internal/model"
	"go-equipment-loan/internal/repository"
	"go-equipment-loan/internal/service"
	"go-equipment-loan/internal/ws"
	"go-equipment-loan/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(&model.Category{}, &model.Equipment{}, &model.Loan{}, &model.Return{}, &model.User{}, &model.Privilege{}, &model.Role{})

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	equipmentRepo := repository.NewEquipmentRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	loanRepo := repository.NewLoanRepo(db)
	returnRepo := repository.NewReturnRepo(db)
	reportRepo := repository.NewReportRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	equipmentService := service.NewEquipmentService(equipmentRepo, categoryRepo, db, wsHub)
	loanService := service.NewLoanService(loanRepo, equipmentRepo, db, wsHub)
	returnService := service.NewReturnService(returnRepo, loanRepo, equipmentRepo, db, wsHub, service.FinePerDayFromEnv())
	dashService := service.NewDashboardService(reportRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	equipmentHandler := handler.NewEquipmentHandler(equipmentService)
	loanHandler := handler.NewLoanHandler(loanService)
	returnHandler := handler.NewReturnHandler(returnService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Equipment Loan Service v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/loan-activity", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetLoanActivity)
	protected.Get("/dashboard/fine-summary", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetFineSummary)

	// Category Routes
	protected.Get("/categories", equipmentHandler.GetCategories)
	protected.Post("/categories", middleware.RequirePrivilege("category:create"), equipmentHandler.CreateCategory)

	// Equipment Routes
	protected.Get("/equipment", equipmentHandler.GetEquipment)
	protected.Get("/equipment/:id", equipmentHandler.GetEquipmentByID)
	protected.Post("/equipment", middleware.RequirePrivilege("equipment:create"), equipmentHandler.CreateEquipment)
	protected.Put("/equipment/:id", middleware.RequirePrivilege("equipment:update"), equipmentHandler.UpdateEquipment)

	// Loan Routes (borrowers request, staff approve)
	protected.Get("/loans", middleware.RequirePrivilege("loan:view"), loanHandler.GetLoans)
	protected.Get("/loans/mine", loanHandler.GetMyLoans)
	protected.Get("/loans/:id", loanHandler.GetLoan)
	protected.Post("/loans", middleware.RequirePrivilege("loan:request"), loanHandler.RequestLoan)
	protected.Post("/loans/:id/approve", middleware.RequirePrivilege("loan:approve"), loanHandler.Approve)
	protected.Post("/loans/:id/reject", middleware.RequirePrivilege("loan:approve"), loanHandler.Reject)

	// Return Routes
	protected.Get("/returns", middleware.RequirePrivilege("return:view"), returnHandler.GetReturns)
	protected.Get("/returns/mine", returnHandler.GetMyReturns)
	protected.Get("/returns/:id", returnHandler.GetReturn)
	protected.Post("/returns", middleware.RequirePrivilege("return:request"), returnHandler.RequestReturn)
	protected.Post("/returns/:id/approve", middleware.RequirePrivilege("return:approve"), returnHandler.ApproveReturn)
	protected.Post("/returns/:id/pay", middleware.RequirePrivilege("fine:pay"), returnHandler.PayDenda)

	// User Management Routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("✅ MASTER_ADMIN role assigned all privileges")
	}

	// PETUGAS gets the staff set
	petugasRole, err := roleRepo.FindByCode(model.RolePetugas)
	if err == nil && len(petugasRole.Privileges) == 0 {
		staffPrivileges, _ := privilegeRepo.FindByCodes(model.StaffPrivilegeCodes)
		db.Model(&petugasRole).Association("Privileges").Replace(staffPrivileges)
		log.Println("✅ PETUGAS role assigned staff privileges")
	}

	// PEMINJAM gets the borrower set
	peminjamRole, err := roleRepo.FindByCode(model.RolePeminjam)
	if err == nil && len(peminjamRole.Privileges) == 0 {
		borrowerPrivileges, _ := privilegeRepo.FindByCodes(model.BorrowerPrivilegeCodes)
		db.Model(&peminjamRole).Association("Privileges").Replace(borrowerPrivileges)
		log.Println("✅ PEMINJAM role assigned borrower privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:      "admin@example.com",
			FullName:   "Master Administrator",
			RoleID:     &masterRole.ID,
			IsActive:   true,
			Privileges: masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
