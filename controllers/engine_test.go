package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/packkart/PackKart/pricing"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := cookie.NewStore([]byte("test-session-key"))
	router.Use(sessions.Sessions("packkart", store))
	router.GET("/bind", handler)
	return router
}

func TestBindCheckoutSessionWritesCookie(t *testing.T) {
	sess := &pricing.Session{ID: uuid.New().String(), UserID: 7}

	var stored interface{}
	router := sessionRouter(func(c *gin.Context) {
		bindCheckoutSession(c, sess)
		stored = sessions.Default(c).Get(checkoutSessionKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bind", nil))

	assert.Equal(t, sess.ID, stored)
	require.NotEmpty(t, w.Header().Values("Set-Cookie"))
}

func TestBindCheckoutSessionResumesWithoutRewrite(t *testing.T) {
	sess := &pricing.Session{ID: uuid.New().String(), UserID: 7}

	var stored interface{}
	router := sessionRouter(func(c *gin.Context) {
		bindCheckoutSession(c, sess)
		stored = sessions.Default(c).Get(checkoutSessionKey)
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/bind", nil))
	require.NotEmpty(t, first.Header().Values("Set-Cookie"))

	// A returning browser presents the cookie; the id matches, so nothing is
	// rewritten.
	again := httptest.NewRequest(http.MethodGet, "/bind", nil)
	again.Header.Set("Cookie", first.Header().Get("Set-Cookie"))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, again)

	assert.Equal(t, sess.ID, stored)
	assert.Empty(t, second.Header().Values("Set-Cookie"))
}
