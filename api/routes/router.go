package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghazlapps/salon-backend/api/controllers"
	"github.com/ghazlapps/salon-backend/api/middleware"
	"github.com/ghazlapps/salon-backend/internal/appointments"
	"github.com/ghazlapps/salon-backend/internal/catalog"
	checkoutsvc "github.com/ghazlapps/salon-backend/internal/checkout"
	"github.com/ghazlapps/salon-backend/internal/customers"
	"github.com/ghazlapps/salon-backend/internal/inventory"
	"github.com/ghazlapps/salon-backend/internal/receipts"
	"github.com/ghazlapps/salon-backend/pkg/config"
	"github.com/ghazlapps/salon-backend/pkg/db"
	"github.com/ghazlapps/salon-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	promGatherer prometheus.Gatherer,
	catalogService catalog.Service,
	inventoryService inventory.Service,
	customerService customers.Service,
	appointmentService appointments.Service,
	checkoutService checkoutsvc.Service,
	receiptService receipts.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if promGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Post("/", controllers.CreateProduct(catalogService, logg))
			r.Get("/{productId}", controllers.GetProduct(catalogService, logg))
			r.Put("/{productId}", controllers.UpdateProduct(catalogService, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(catalogService, logg))
			r.Get("/{productId}/stock", controllers.GetStock(inventoryService, logg))
			r.Post("/{productId}/stock/adjust", controllers.AdjustStock(inventoryService, logg))
			r.Get("/{productId}/stock/logs", controllers.ListStockLogs(inventoryService, logg))
		})

		r.Get("/stock", controllers.ListStock(inventoryService, logg))

		r.Route("/services", func(r chi.Router) {
			r.Get("/", controllers.ListServices(catalogService, logg))
			r.Post("/", controllers.CreateService(catalogService, logg))
			r.Put("/{serviceId}", controllers.UpdateService(catalogService, logg))
			r.Delete("/{serviceId}", controllers.DeleteService(catalogService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(customerService, logg))
			r.Post("/", controllers.CreateCustomer(customerService, logg))
			r.Get("/{customerId}", controllers.GetCustomer(customerService, logg))
			r.Put("/{customerId}", controllers.UpdateCustomer(customerService, logg))
			r.Delete("/{customerId}", controllers.DeleteCustomer(customerService, logg))
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", controllers.ListAppointments(appointmentService, logg))
			r.Post("/", controllers.CreateAppointment(appointmentService, logg))
			r.Get("/{appointmentId}", controllers.GetAppointment(appointmentService, logg))
			r.Put("/{appointmentId}", controllers.UpdateAppointment(appointmentService, logg))
			r.Delete("/{appointmentId}", controllers.DeleteAppointment(appointmentService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/receipts", func(r chi.Router) {
			r.Get("/", controllers.ListReceipts(receiptService, logg))
			r.Get("/{receiptId}", controllers.GetReceipt(receiptService, logg))
		})
	})

	return r
}
