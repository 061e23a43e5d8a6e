package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/mizutamauma/bloghub/internal/userservice"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/v1/users/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/activate", app.activateUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))

	// blog service
	router.HandlerFunc(http.MethodGet, "/v1/blogs/view/:sort", app.listBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blogs/user", app.requireAuthUser(app.listUserBlogsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/blogs/content/:id", app.getBlogContentHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blogs/create", app.requirePermission(app.createBlogHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPut, "/v1/blogs/update", app.requirePermission(app.updateBlogHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/delete/:id", app.requirePermission(app.deleteBlogHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPut, "/v1/blogs/like/:id", app.requireActivatedUser(app.likeBlogHandler))
	router.HandlerFunc(http.MethodPut, "/v1/blogs/unlike/:id", app.requireActivatedUser(app.unlikeBlogHandler))
	router.HandlerFunc(http.MethodPost, "/v1/blogs/banner", app.requirePermission(app.uploadBannerHandler, userservice.PermissionWriteBlog))

	// comment service
	router.HandlerFunc(http.MethodGet, "/v1/comments/view/:blogId", app.listCommentsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/comments/create", app.requireActivatedUser(app.createCommentHandler))
	router.HandlerFunc(http.MethodPut, "/v1/comments/update", app.requireActivatedUser(app.updateCommentHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/comments/delete/:id", app.requireActivatedUser(app.deleteCommentHandler))
	router.HandlerFunc(http.MethodPut, "/v1/comments/like/:id", app.requireActivatedUser(app.likeCommentHandler))
	router.HandlerFunc(http.MethodPut, "/v1/comments/unlike/:id", app.requireActivatedUser(app.unlikeCommentHandler))

	return app.recoverPanic(app.enableCORS(app.rateLimit(app.logRequest(app.authenticate(router)))))
}
