package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"spendly/internal/handlers"
	"spendly/internal/logger"
	"spendly/internal/middleware"
	"spendly/internal/models"
	"spendly/internal/notifier"
	"spendly/internal/push"
	"spendly/internal/services"
	"spendly/internal/validator"
	"spendly/internal/vision"
)

const (
	testWebhookSecret = "test-webhook-secret"
	testJobAPIKey     = "test-job-key"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Parser *scriptedParser
	Sender *recordingSender
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// scriptedParser stands in for the capture provider.
type scriptedParser struct {
	result *vision.CaptureResult
	err    error
}

func (p *scriptedParser) ParseReceipt(_ context.Context, _ io.Reader, _ string) (*vision.CaptureResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func (p *scriptedParser) ParseVoiceMemo(_ context.Context, _ io.Reader, _ string) (*vision.CaptureResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

// recordingSender captures outgoing push notifications.
type recordingSender struct {
	sent []push.Message
}

func (s *recordingSender) Send(_ context.Context, msg push.Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.UserPreferences{},
		&models.Category{},
		&models.Expense{},
		&models.Subscription{},
		&models.PasswordReset{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	parser := &scriptedParser{
		result: &vision.CaptureResult{
			Amount:      4250,
			Description: "Blue Bottle Coffee",
			Merchant:    "Blue Bottle",
			Date:        time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		},
	}
	sender := &recordingSender{}

	// Services
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	preferencesService := services.NewPreferencesService(db)
	budgetService := services.NewBudgetService(db, preferencesService, expenseService)
	subscriptionService := services.NewSubscriptionService(db)
	notificationService := services.NewNotificationService(db, userService, sender)
	auditService := services.NewAuditService(db)

	budgetNotifier := notifier.New(db, expenseService, sender, 15*time.Minute)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, categoryService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	preferencesHandler := handlers.NewPreferencesHandler(preferencesService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	screensHandler := handlers.NewScreensHandler(expenseService, budgetService, categoryService)
	captureHandler := handlers.NewCaptureHandler(parser, expenseService, subscriptionService, auditService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, budgetNotifier)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	webhooks := v1.Group("/webhooks")
	webhooks.Use(middleware.WebhookAuthMiddleware(testWebhookSecret))
	webhooks.POST("/subscription", subscriptionHandler.HandleWebhook)

	jobs := v1.Group("/jobs")
	jobs.Use(middleware.JobAuthMiddleware(testJobAPIKey))
	jobs.POST("/notifications/run", notificationHandler.RunNotifier)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile/push-token", authHandler.UpdatePushToken)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	protected.GET("/preferences", preferencesHandler.GetPreferences)
	protected.PUT("/preferences", preferencesHandler.UpdatePreferences)
	protected.GET("/budget/progress", budgetHandler.GetProgress)

	screens := protected.Group("/screens")
	screens.GET("/dashboard", screensHandler.Dashboard)
	screens.GET("/expenses", screensHandler.Expenses)
	screens.GET("/analytics", screensHandler.Analytics)

	capture := protected.Group("/capture")
	capture.POST("/receipt", captureHandler.CaptureReceipt)
	capture.POST("/voice", captureHandler.CaptureVoice)

	protected.GET("/subscription", subscriptionHandler.GetSubscription)
	protected.POST("/notifications/test", notificationHandler.SendTest)

	return &testApp{DB: db, Router: router, Parser: parser, Sender: sender}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// requestWithHeader makes a request carrying one extra header instead of a bearer token.
func (app *testApp) requestWithHeader(method, path, body, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// assertErrorCode asserts the error envelope carries the expected code.
func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %v", code, errObj["code"])
	}
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// grantPremium applies a subscription webhook that puts the user on an active premium plan.
func (app *testApp) grantPremium(t *testing.T, userID float64) {
	t.Helper()
	end := time.Now().Add(30 * 24 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{
		"type": "subscription.created",
		"provider": "app_store",
		"provider_subscription_id": "sub_test",
		"user_id": %d,
		"plan": "premium_monthly",
		"status": "active",
		"period_end": %q
	}`, int(userID), end)
	rec := app.requestWithHeader("POST", "/api/v1/webhooks/subscription", body, "X-Webhook-Secret", testWebhookSecret)
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook failed: %d %s", rec.Code, rec.Body.String())
	}
}
