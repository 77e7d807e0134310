package main

import (
	"log"
	"strings"

	"dinehub-backend/internal/audit"
	"dinehub-backend/internal/auth"
	"dinehub-backend/internal/config"
	"dinehub-backend/internal/dashboard"
	"dinehub-backend/internal/database"
	"dinehub-backend/internal/delivery"
	"dinehub-backend/internal/inventory"
	"dinehub-backend/internal/loyalty"
	"dinehub-backend/internal/models"
	"dinehub-backend/internal/orders"
	"dinehub-backend/internal/reservations"
	"dinehub-backend/internal/respond"
	"dinehub-backend/internal/staff"
	"dinehub-backend/internal/suppliers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: respond.ErrorHandler,
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-restaurant-id",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(db, cfg))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	managerOnly := auth.RequireRole(models.RoleManager, models.RolePlatformAdmin)

	// Inventory
	protected.Get("/inventory", inventory.ListItemsHandler(db))
	protected.Post("/inventory", managerOnly, inventory.CreateItemHandler(db))
	protected.Patch("/inventory/:id", managerOnly, inventory.UpdateItemHandler(db))
	protected.Delete("/inventory/:id", managerOnly, inventory.DeleteItemHandler(db))
	protected.Post("/inventory/add-stock", inventory.AddStockHandler(db))
	protected.Post("/inventory/withdraw-stock", inventory.WithdrawStockHandler(db))
	protected.Get("/inventory/:id/movements", inventory.ListMovementsHandler(db))
	protected.Post("/inventory/import", managerOnly, inventory.ImportItemsHandler(db))

	// Active orders
	protected.Get("/active-orders", orders.ListOrdersHandler(db))
	protected.Post("/active-orders", orders.CreateOrderHandler(db))
	protected.Get("/active-orders/:id", orders.GetOrderHandler(db))
	protected.Patch("/active-orders/:id/status", orders.UpdateStatusHandler(db))

	// Loyalty
	protected.Get("/loyalty-customers", loyalty.ListCustomersHandler(db))
	protected.Post("/loyalty-customers", loyalty.CreateCustomerHandler(db))
	protected.Post("/loyalty-customers/:id/points", loyalty.AdjustPointsHandler(db))

	// Staff & attendance
	protected.Get("/staff", staff.ListStaffHandler(db))
	protected.Post("/staff", managerOnly, staff.CreateStaffHandler(db))
	protected.Patch("/staff/:id", managerOnly, staff.UpdateStaffHandler(db))
	protected.Delete("/staff/:id", managerOnly, staff.DeleteStaffHandler(db))
	protected.Post("/staff/:id/attendance", staff.RecordAttendanceHandler(db))
	protected.Get("/attendance", staff.ListAttendanceHandler(db))

	// Suppliers
	protected.Get("/suppliers", suppliers.ListSuppliersHandler(db))
	protected.Post("/suppliers", managerOnly, suppliers.CreateSupplierHandler(db))
	protected.Patch("/suppliers/:id", managerOnly, suppliers.UpdateSupplierHandler(db))
	protected.Delete("/suppliers/:id", managerOnly, suppliers.DeleteSupplierHandler(db))

	// Reservations
	protected.Get("/reservations", reservations.ListReservationsHandler(db))
	protected.Post("/reservations", reservations.CreateReservationHandler(db))
	protected.Patch("/reservations/:id/status", reservations.UpdateReservationStatusHandler(db))

	// Delivery
	protected.Get("/delivery-persons", delivery.ListPersonsHandler(db))
	protected.Post("/delivery-persons", managerOnly, delivery.CreatePersonHandler(db))
	protected.Patch("/delivery-persons/:id", managerOnly, delivery.UpdatePersonHandler(db))
	protected.Get("/deliveries", delivery.ListDeliveriesHandler(db))
	protected.Post("/deliveries", delivery.CreateDeliveryHandler(db))
	protected.Patch("/deliveries/:id/status", delivery.UpdateDeliveryStatusHandler(db))

	// Dashboard
	protected.Get("/dashboard/summary", dashboard.SummaryHandler(db))

	// Audit logs
	protected.Get("/audit-logs", managerOnly, audit.ListAuditLogsHandler(db))

	log.Println("server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
