package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/mflix/internal/model"
)

const (
	sessionName = "mflix-session"

	// EmailKey and TokenKey are the session keys identifying the logged-in user
	EmailKey = "email"
	TokenKey = "token"
	// UserKey is the context key for the authenticated user
	UserKey = "user"
)

// NewServer initializes the router
func NewServer(cookieSecret string, metrics *Metrics, userHandler *UserHandler, movieHandler *MovieHandler, commentHandler *CommentHandler) *gin.Engine {
	router := gin.New()
	router.SetTrustedProxies(nil)
	router.Use(gin.Recovery(), requestLogger, metrics.Middleware())

	// Cookies
	store := cookie.NewStore([]byte(cookieSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, store))

	router.NoRoute(func(c *gin.Context) {
		respondError(c, model.ErrNotFound)
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	needsLogin := authRequired(userHandler.UserManager)

	movies := router.Group("/api/v1/movies")
	movies.GET("", movieHandler.GETMovies)
	movies.GET("/", movieHandler.GETMovies)
	movies.GET("/search", movieHandler.GETSearch)
	movies.GET("/countries", movieHandler.GETMoviesByCountry)
	movies.GET("/facet-search", movieHandler.GETFacetSearch)
	movies.GET("/id/:id", movieHandler.GETMovie)
	movies.GET("/top/:field", movieHandler.GETTop)
	movies.GET("/config-options", needsLogin, adminRequired, movieHandler.GETConfigOptions)
	movies.POST("/comment", needsLogin, commentHandler.POSTComment)
	movies.PUT("/comment", needsLogin, commentHandler.PUTComment)
	movies.DELETE("/comment", needsLogin, commentHandler.DELETEComment)

	user := router.Group("/api/v1/user")
	user.POST("/register", userHandler.POSTRegister)
	user.POST("/login", userHandler.POSTLogin)
	user.POST("/logout", needsLogin, userHandler.POSTLogout)
	user.DELETE("/delete", needsLogin, userHandler.DELETEUser)
	user.PUT("/update-preferences", needsLogin, userHandler.PUTPreferences)
	user.GET("/comment-report", needsLogin, adminRequired, commentHandler.GETCommentReport)
	user.POST("/make-admin", needsLogin, adminRequired, userHandler.POSTMakeAdmin)

	return router
}

// requestLogger logs every request once it has been served
func requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	event := log.Info()
	if c.Writer.Status() >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Msg("Request")
}

// authRequired ensures that a request will be aborted if the user does not hold a valid session
func authRequired(sc SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		email, _ := session.Get(EmailKey).(string)
		token, _ := session.Get(TokenKey).(string)
		if email == "" {
			respondError(c, model.ErrAuthentication)
			return
		}

		user, err := sc.CheckSession(c.Request.Context(), email, token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// adminRequired ensures that a request will be aborted if the user is not admin
func adminRequired(c *gin.Context) {
	if user := currentUser(c); user == nil || !user.IsAdmin {
		respondError(c, model.ErrAdminRequired)
		return
	}
	c.Next()
}

// currentUser returns the user set by authRequired
func currentUser(c *gin.Context) *model.User {
	user, _ := c.MustGet(UserKey).(*model.User)
	return user
}
