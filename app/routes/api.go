// Package routes wires controllers onto the router.
package routes

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/controllers"
	"github.com/lidosole/lidosole/app/graphql"
	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/services"
	"github.com/lidosole/lidosole/pkg/cache"
	"github.com/lidosole/lidosole/pkg/httpclient"
	"github.com/lidosole/lidosole/pkg/metrics"
	"github.com/lidosole/lidosole/pkg/middleware"
	"github.com/lidosole/lidosole/pkg/response"
	"github.com/lidosole/lidosole/pkg/router"
	"github.com/lidosole/lidosole/pkg/storage"
	"github.com/lidosole/lidosole/pkg/ws"
)

// Deps carries the shared collaborators the API needs.
type Deps struct {
	DB    *gorm.DB
	Cache *cache.Cache
	Disk  storage.Disk
	Hub   *ws.Hub
}

// RegisterAPI mounts every endpoint.
func RegisterAPI(r *router.Router, d Deps) error {
	identity := services.NewIdentityService(d.DB, d.Cache)

	authController := controllers.NewAuthController(identity)
	categoryController := controllers.NewCategoryController(services.NewCategoryService(d.DB))
	productController := controllers.NewProductController(services.NewProductService(d.DB))
	cartController := controllers.NewCartController(services.NewCartService(d.DB))
	orderController := controllers.NewOrderController(services.NewOrderService(d.DB))
	umbrellaController := controllers.NewUmbrellaController(services.NewUmbrellaService(d.DB, d.Hub))
	reservationController := controllers.NewReservationController(services.NewReservationService(d.DB, d.Hub))
	subscriptionController := controllers.NewSubscriptionController(services.NewSubscriptionService(d.DB, d.Cache))
	commentController := controllers.NewCommentController(services.NewCommentService(d.DB))
	postController := controllers.NewPostController(services.NewPostService(d.DB))
	imageController := controllers.NewImageController(services.NewImageService(d.DB, d.Disk, d.Cache))
	weatherController := controllers.NewWeatherController(services.NewWeatherService(httpclient.New(), d.Cache))

	catalogQL, err := graphql.New(d.DB)
	if err != nil {
		return err
	}

	api := r.Group("/api")

	// Public surface.
	api.Post("/auth/register", "auth.register", authController.Register)
	api.Get("/auth/verify", "auth.verify", authController.Verify)
	api.Post("/auth/login", "auth.login", authController.Login)
	api.Post("/auth/refresh", "auth.refresh", authController.Refresh)

	api.Get("/categories", "categories.list", categoryController.GetList)
	api.Get("/categories/{id}", "categories.get", categoryController.Get)
	api.Get("/products", "products.list", productController.GetList)
	api.Get("/products/{id}", "products.get", productController.Get)
	api.Get("/umbrellas", "umbrellas.list", umbrellaController.GetList)
	api.Get("/umbrellas/{id}", "umbrellas.get", umbrellaController.Get)
	api.Get("/comments", "comments.list", commentController.GetList)
	api.Get("/comments/{id}", "comments.get", commentController.Get)
	api.Get("/posts", "posts.list", postController.GetList)
	api.Get("/posts/{id}", "posts.get", postController.Get)
	api.Get("/weather", "weather.current", weatherController.Current)
	api.Post("/graphql", "graphql", catalogQL.ServeHTTP)

	// Authenticated surface.
	authed := api.Group("", middleware.Auth(identity.ValidStamp))
	authed.Get("/me", "me.get", authController.Me)
	authed.Put("/me", "me.update", authController.UpdateMe)

	authed.Get("/carts", "carts.get", cartController.Get)
	authed.Post("/carts/items", "carts.save", cartController.Save)
	authed.Delete("/carts/items/{id}", "carts.removeItem", cartController.RemoveItem)
	authed.Delete("/carts", "carts.delete", cartController.Delete)
	authed.Post("/carts/confirm", "carts.confirm", cartController.Confirm)

	authed.Get("/orders", "orders.list", orderController.GetList)
	authed.Get("/orders/{id}", "orders.get", orderController.Get)
	authed.Put("/orders/{id}/status", "orders.updateStatus", orderController.UpdateStatus)
	authed.Delete("/orders/{id}", "orders.delete", orderController.Delete)

	authed.Post("/reservations", "reservations.insert", reservationController.Insert)
	authed.Get("/reservations", "reservations.list", reservationController.GetList)
	authed.Get("/reservations/{id}", "reservations.get", reservationController.Get)
	authed.Put("/reservations/{id}", "reservations.update", reservationController.Update)
	authed.Delete("/reservations/{id}", "reservations.delete", reservationController.Delete)

	authed.Post("/subscriptions", "subscriptions.insert", subscriptionController.Insert)
	authed.Get("/subscriptions", "subscriptions.list", subscriptionController.GetList)
	authed.Get("/subscriptions/{id}", "subscriptions.get", subscriptionController.Get)
	authed.Put("/subscriptions/{id}", "subscriptions.update", subscriptionController.Update)
	authed.Delete("/subscriptions/{id}", "subscriptions.delete", subscriptionController.Delete)

	authed.Post("/comments", "comments.insert", commentController.Insert)
	authed.Put("/comments/{id}", "comments.update", commentController.Update)
	authed.Delete("/comments/{id}", "comments.delete", commentController.Delete)

	authed.Get("/images", "images.list", imageController.GetList)
	authed.Get("/images/{id}", "images.get", imageController.Get)
	authed.Get("/images/{id}/content", "images.content", imageController.Content)

	// Staff surface.
	staff := authed.Group("", middleware.RequireRole(models.RoleAdmin, models.RolePowerUser))
	staff.Post("/categories", "categories.insert", categoryController.Insert)
	staff.Put("/categories/{id}", "categories.update", categoryController.Update)
	staff.Delete("/categories/{id}", "categories.delete", categoryController.Delete)

	staff.Post("/products", "products.insert", productController.Insert)
	staff.Put("/products/{id}", "products.update", productController.Update)
	staff.Delete("/products/{id}", "products.delete", productController.Delete)

	staff.Post("/umbrellas", "umbrellas.insert", umbrellaController.Insert)
	staff.Put("/umbrellas/{id}", "umbrellas.update", umbrellaController.Update)
	staff.Put("/umbrellas/{id}/status", "umbrellas.updateStatus", umbrellaController.UpdateStatus)
	staff.Delete("/umbrellas/{id}", "umbrellas.delete", umbrellaController.Delete)

	staff.Post("/posts", "posts.insert", postController.Insert)
	staff.Put("/posts/{id}", "posts.update", postController.Update)
	staff.Delete("/posts/{id}", "posts.delete", postController.Delete)

	staff.Post("/images", "images.upload", imageController.Upload)
	staff.Delete("/images/{id}", "images.delete", imageController.Delete)

	// Operational surface, outside /api.
	r.Get("/metrics", "metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/ws/umbrellas", "ws.umbrellas", d.Hub.Handler())

	return nil
}
