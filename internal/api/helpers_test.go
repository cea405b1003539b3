package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"stock_portfolio/internal/domain"
	"stock_portfolio/internal/middleware"
	"stock_portfolio/internal/quote"
	"stock_portfolio/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret       = "test-secret"
	testStartingCash = 10000.0
)

// newTestDB opens an isolated in-memory database with the schema migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&domain.User{}, &domain.Transaction{}))
	return gdb
}

// newTestRedis starts an in-process redis for cache paths
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// newTestProvider answers fixed quotes
func newTestProvider() *quote.Static {
	return quote.NewStatic(map[string]quote.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Price: 50},
		"NFLX": {Symbol: "NFLX", Name: "Netflix Inc.", Price: 100},
	})
}

// newTestRouter wires the routes the way cmd/server does
func newTestRouter(gdb *gorm.DB, provider quote.Provider, rdb *redis.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/register", RegisterHandler(gdb, testStartingCash))
	r.POST("/login", LoginHandler(gdb, testSecret))
	r.GET("/logout", LogoutHandler())

	authGroup := r.Group("/")
	authGroup.Use(middleware.JWTAuthMiddleware(testSecret))
	authGroup.GET("/", PortfolioHandler(gdb, provider, testStartingCash))
	authGroup.GET("/history", HistoryHandler(gdb, rdb))
	authGroup.POST("/quote", QuoteHandler(provider))
	authGroup.POST("/buy", BuyHandler(gdb, provider, rdb))
	authGroup.POST("/sell", SellHandler(gdb, provider, rdb))

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(testSecret), middleware.AdminOnlyMiddleware(gdb))
	adminGroup.GET("/users", ListUsersHandler(gdb, rdb))
	adminGroup.GET("/transactions", ListTransactionsHandler(gdb, rdb))

	return r
}

// createTestUser inserts a user with a real bcrypt hash
func createTestUser(t *testing.T, gdb *gorm.DB, username, password string, cash float64) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{Username: username, Password: string(hash), Cash: cash}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

// sessionCookie mints a valid session cookie for a user
func sessionCookie(t *testing.T, userID uint) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateJWT(userID, testSecret)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookie, Value: token}
}

// postForm submits a form-encoded POST, optionally authenticated
func postForm(r *gin.Engine, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// get performs a GET, optionally authenticated
func get(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
