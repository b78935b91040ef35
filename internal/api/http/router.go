package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldforce-crm/internal/api/http/handlers"
	"github.com/spec-kit/fieldforce-crm/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	SuperAdmin *handlers.SuperAdminHandler
	Employees  *handlers.EmployeesHandler
	Facilities *handlers.FacilitiesHandler
	Clients    *handlers.ClientsHandler
	Products   *handlers.ProductsHandler
	Orders     *handlers.OrdersHandler
	Meetings   *handlers.MeetingsHandler
	Attendance *handlers.AttendanceHandler
	Reports    *handlers.ReportsHandler
	Guards     *auth.Guards
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/superadmin/login", cfg.Auth.LoginSuperAdmin)
	authGroup.Post("/admins/register", cfg.Auth.RegisterAdmin)
	authGroup.Post("/admins/password", cfg.Auth.SetAdminPassword)
	authGroup.Post("/admins/login", cfg.Auth.LoginAdmin)
	authGroup.Post("/admins/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/admins/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/employees/password", cfg.Auth.SetEmployeePassword)
	authGroup.Post("/employees/login", cfg.Auth.LoginEmployee)

	superadmin := app.Group("/superadmin", cfg.Guards.RequireSuperAdmin)
	superadmin.Get("/admins/pending", cfg.SuperAdmin.ListPendingAdmins)
	superadmin.Get("/admins/:id", cfg.SuperAdmin.GetAdmin)
	superadmin.Post("/admins/:id/verify", cfg.SuperAdmin.VerifyAdmin)
	superadmin.Delete("/admins/:id", cfg.SuperAdmin.DeleteAdmin)
	superadmin.Get("/organizations/:id", cfg.SuperAdmin.GetOrganization)
	superadmin.Get("/stats", cfg.SuperAdmin.Stats)

	admin := app.Group("/admin", cfg.Guards.RequireAdmin)
	admin.Post("/employees", cfg.Employees.Create)
	admin.Get("/employees", cfg.Employees.List)
	admin.Get("/employees/quota", cfg.Employees.Quota)
	admin.Get("/employees/:id", cfg.Employees.Get)
	admin.Patch("/employees/:id/active", cfg.Employees.SetActive)
	admin.Get("/employees/:id/location", cfg.Employees.Location)

	admin.Post("/facilities", cfg.Facilities.Create)
	admin.Get("/facilities", cfg.Facilities.List)
	admin.Get("/facilities/stats", cfg.Facilities.Stats)
	admin.Get("/facilities/:id", cfg.Facilities.Get)
	admin.Put("/facilities/:id", cfg.Facilities.Update)
	admin.Delete("/facilities/:id", cfg.Facilities.Delete)
	admin.Get("/facilities/:id/visits", cfg.Facilities.VisitStats)

	admin.Post("/clients", cfg.Clients.Create)
	admin.Get("/clients", cfg.Clients.List)
	admin.Get("/clients/:id", cfg.Clients.Get)
	admin.Put("/clients/:id", cfg.Clients.Update)

	admin.Post("/products", cfg.Products.Create)
	admin.Get("/products", cfg.Products.List)
	admin.Get("/products/categories", cfg.Products.Categories)
	admin.Get("/products/inventory", cfg.Products.InventoryStats)
	admin.Patch("/products/stock", cfg.Products.BulkStock)
	admin.Get("/products/:id", cfg.Products.Get)
	admin.Put("/products/:id", cfg.Products.Update)
	admin.Delete("/products/:id", cfg.Products.Delete)
	admin.Get("/products/:id/sales", cfg.Products.SalesStats)

	admin.Post("/orders", cfg.Orders.CreateByAdmin)
	admin.Get("/orders", cfg.Orders.List)
	admin.Get("/orders/:id", cfg.Orders.Get)
	admin.Patch("/orders/:id/status", cfg.Orders.Decide)

	admin.Get("/wfh", cfg.Attendance.ListWFH)
	admin.Patch("/wfh/:id", cfg.Attendance.DecideWFH)

	admin.Get("/reports/sales", cfg.Reports.SalesTrends)
	admin.Get("/reports/visits", cfg.Reports.VisitTrends)

	employee := app.Group("/employee", cfg.Guards.RequireEmployee)
	employee.Get("/profile", cfg.Employees.Profile)
	employee.Get("/summary", cfg.Employees.Summary)

	employee.Post("/facilities", cfg.Facilities.Create)
	employee.Get("/facilities", cfg.Facilities.List)
	employee.Get("/facilities/nearby", cfg.Facilities.Nearby)
	employee.Get("/facilities/:id", cfg.Facilities.Get)
	employee.Get("/facilities/:id/visits", cfg.Facilities.VisitStats)
	employee.Post("/facilities/:id/rate", cfg.Facilities.Rate)

	employee.Post("/clients", cfg.Clients.Create)
	employee.Get("/clients", cfg.Clients.List)
	employee.Get("/clients/mine", cfg.Clients.Mine)
	employee.Get("/clients/:id", cfg.Clients.Get)
	employee.Put("/clients/:id", cfg.Clients.Update)

	employee.Get("/products", cfg.Products.List)
	employee.Get("/products/categories", cfg.Products.Categories)
	employee.Get("/products/:id", cfg.Products.Get)

	employee.Post("/orders", cfg.Orders.CreateByEmployee)
	employee.Get("/orders", cfg.Orders.List)
	employee.Get("/orders/:id", cfg.Orders.Get)
	employee.Put("/orders/:id", cfg.Orders.UpdateByEmployee)
	employee.Get("/sales", cfg.Orders.MySales)

	employee.Post("/meetings/check-in", cfg.Meetings.CheckIn)
	employee.Get("/meetings/active", cfg.Meetings.Active)
	employee.Get("/meetings", cfg.Meetings.History)
	employee.Post("/meetings/:id/check-out", cfg.Meetings.CheckOut)
	employee.Patch("/meetings/:id/outcome", cfg.Meetings.Outcome)

	employee.Post("/attendance/clock-in", cfg.Attendance.ClockIn)
	employee.Post("/attendance/clock-out", cfg.Attendance.ClockOut)
	employee.Get("/attendance/today", cfg.Attendance.Today)
	employee.Get("/attendance", cfg.Attendance.History)

	employee.Post("/wfh", cfg.Attendance.RequestWFH)
}
