package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/pagecraft/pagecraft/internal/appconfig"
	"github.com/pagecraft/pagecraft/internal/auth"
	"github.com/pagecraft/pagecraft/internal/blog"
	"github.com/pagecraft/pagecraft/internal/company"
	"github.com/pagecraft/pagecraft/internal/contact"
	"github.com/pagecraft/pagecraft/internal/convert"
	"github.com/pagecraft/pagecraft/internal/group"
	"github.com/pagecraft/pagecraft/internal/storage"
	"github.com/pagecraft/pagecraft/internal/template"
	"github.com/pagecraft/pagecraft/internal/transport/middleware"
	"github.com/pagecraft/pagecraft/internal/transport/swagger"
	"github.com/pagecraft/pagecraft/internal/user"
)

// Handlers bundles every HTTP handler the router mounts. Nil entries are
// skipped so partial wiring (worker-only deployments, tests) stays possible.
type Handlers struct {
	Auth      *auth.Handler
	User      *user.Handler
	Company   *company.Handler
	Group     *group.Handler
	Storage   *storage.Handler
	Template  *template.Handler
	Blog      *blog.Handler
	Contact   *contact.Handler
	AppConfig *appconfig.Handler
	Convert   *convert.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORSWithOrigins(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", h.Auth.Register)
				sr.Post("/activate", h.Auth.Activate)
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
				sr.Post("/password-reset", h.Auth.ResetPassword)
				sr.Post("/password-reset/confirm", h.Auth.ResetPasswordConfirm)
			})
		}

		// Public catalog routes, no auth required.
		if h.Template != nil {
			r.Get("/templates/public", h.Template.PublicTemplates)
		}
		if h.Blog != nil {
			r.Get("/blogs", h.Blog.ListPosts)
			r.Get("/blogs/{id}", h.Blog.GetPost)
		}
		if h.Contact != nil {
			r.Post("/contacts", h.Contact.CreateContact)
		}
		if h.AppConfig != nil {
			r.Get("/configs/{key}", h.AppConfig.GetValue)
		}
		if h.Convert != nil {
			r.Get("/convert/actions", h.Convert.ListActions)
			r.Get("/convert/media-types", h.Convert.ListMediaTypes)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/auth/password-change", h.Auth.ChangePassword)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetUserDetail)
				pr.Get("/groups/{id}/users", h.User.GetGroupUsers)
			}

			if h.Company != nil {
				pr.Route("/companies", func(cr chi.Router) {
					cr.Post("/", h.Company.CreateCompany)
					cr.Get("/", h.Company.SearchCompanies)
					cr.Get("/mine", h.Company.GetMyCompanies)
					cr.Get("/{id}", h.Company.GetCompany)
					cr.Patch("/{id}", h.Company.UpdateCompany)
					cr.Delete("/{id}", h.Company.DeleteCompany)
					cr.Post("/{id}/select", h.Company.SelectCompany)
					cr.Post("/{id}/invite", h.Company.InviteUser)

					if h.User != nil {
						cr.Get("/{id}/users", h.User.GetInvitedUsers)
						cr.Get("/{id}/groups", h.User.GetCompanyPermissionGroups)
						cr.Get("/{id}/permissions", h.User.GetPermissionsForCompany)
					}
				})
			}

			if h.Group != nil {
				pr.Route("/groups", func(gr chi.Router) {
					gr.Post("/", h.Group.CreateGroup)
					gr.Get("/", h.Group.GetCompanyGroups)
					gr.Get("/{id}", h.Group.GetGroup)
					gr.Patch("/{id}", h.Group.UpdateGroup)
					gr.Delete("/{id}", h.Group.DeleteGroup)
					gr.Post("/{id}/users", h.Group.AddUser)
					gr.Delete("/{id}/users", h.Group.RemoveUser)
				})
			}

			if h.Storage != nil {
				pr.Route("/storages", func(sr chi.Router) {
					sr.Get("/", h.Storage.GetCompanyStorages)

					sr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermissions("storages.add_storage"))
						ar.Post("/", h.Storage.CreateStorage)
					})
					sr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermissions("storages.change_storage"))
						ar.Patch("/{id}", h.Storage.UpdateStorage)
						ar.Post("/{id}/select", h.Storage.SelectStorage)
					})
					sr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermissions("storages.delete_storage"))
						ar.Delete("/{id}", h.Storage.DeleteStorage)
					})
				})
				pr.Post("/files/upload", h.Storage.UploadFile)
			}

			if h.Template != nil {
				pr.Route("/templates", func(tr chi.Router) {
					tr.Post("/", h.Template.CreateTemplate)
					tr.Get("/", h.Template.ListTemplates)
					tr.Post("/batch-delete", h.Template.BatchDeleteTemplates)
					tr.Get("/{id}", h.Template.GetTemplate)
					tr.Patch("/{id}", h.Template.UpdateTemplate)
					tr.Delete("/{id}", h.Template.DeleteTemplate)
					tr.Patch("/{id}/html", h.Template.UpdateTemplateHTML)
					tr.Post("/{id}/copy", h.Template.CopyTemplate)
					tr.Patch("/{id}/active", h.Template.SetActive)
					tr.Patch("/{id}/public", h.Template.SetPublic)
					tr.Patch("/{id}/approve", h.Template.Approve)
					tr.Post("/{id}/export", h.Template.ExportTemplate)
				})
				pr.Route("/template-categories", func(tr chi.Router) {
					tr.Post("/", h.Template.CreateCategory)
					tr.Get("/", h.Template.GetCategories)
					tr.Patch("/{id}", h.Template.UpdateCategory)
					tr.Delete("/{id}", h.Template.DeleteCategory)
				})
			}

			if h.Blog != nil {
				pr.Post("/blogs", h.Blog.CreatePost)
				pr.Patch("/blogs/{id}", h.Blog.UpdatePost)
				pr.Delete("/blogs/{id}", h.Blog.DeletePost)
			}

			if h.Contact != nil {
				pr.Get("/contacts", h.Contact.ListContacts)
			}

			if h.AppConfig != nil {
				pr.Route("/configs", func(cr chi.Router) {
					cr.Get("/", h.AppConfig.ListConfigs)
					cr.Put("/", h.AppConfig.SetConfig)
					cr.Delete("/{key}", h.AppConfig.DeleteConfig)
				})
				pr.Get("/email-templates", h.AppConfig.ListEmailTemplates)
				pr.Put("/email-templates", h.AppConfig.SetEmailTemplate)
			}

			if h.Convert != nil {
				pr.Post("/convert/actions", h.Convert.CreateAction)
				pr.Delete("/convert/actions/{id}", h.Convert.DeleteAction)
			}
		})
	})
}
