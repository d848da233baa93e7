package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/truehomes/truehomes-api/internal/constants"
	"github.com/truehomes/truehomes-api/internal/database"
	"github.com/truehomes/truehomes-api/internal/middleware"
	"github.com/truehomes/truehomes-api/internal/models"
	"github.com/truehomes/truehomes-api/internal/repository"
	"github.com/truehomes/truehomes-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeMailer records outbound reset mail instead of calling Resend.
type fakeMailer struct {
	recipients []string
	resetURLs  []string
	failNext   bool
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, recipient, resetURL string) error {
	if m.failNext {
		return fmt.Errorf("smtp unreachable")
	}
	m.recipients = append(m.recipients, recipient)
	m.resetURLs = append(m.resetURLs, resetURL)
	return nil
}

// fakeUploader records object keys instead of calling S3. Uploads fan out
// concurrently, so the recording is mutex-guarded.
type fakeUploader struct {
	mu       sync.Mutex
	keys     []string
	failNext bool
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if u.failNext {
		return "", fmt.Errorf("object storage unreachable")
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	u.mu.Lock()
	u.keys = append(u.keys, key)
	u.mu.Unlock()
	return "https://cdn.test/" + key, nil
}

type testEnv struct {
	db             *gorm.DB
	router         *gin.Engine
	tokens         *services.TokenService
	mailer         *fakeMailer
	uploader       *fakeUploader
	authService    *services.AuthService
	userService    *services.UserService
	listingService *services.ListingService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Listing{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)

	tokens := services.NewTokenService("test-secret")
	mailer := &fakeMailer{}
	uploader := &fakeUploader{}
	authService := services.NewAuthService(userRepo, tokens, mailer, "http://localhost:5173")
	userService := services.NewUserService(userRepo)
	listingService := services.NewListingService(listingRepo)

	authHandler := NewAuthHandler(authService, tokens)
	userHandler := NewUserHandler(userService, listingService, uploader)
	listingHandler := NewListingHandler(listingService, uploader)

	r := gin.New()
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/signin", authHandler.Signin)
			auth.POST("/google", authHandler.Google)
			auth.GET("/signout", authHandler.Signout)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password/:token", authHandler.ResetPassword)
		}

		user := api.Group("/user")
		user.Use(middleware.RequireAuth(tokens))
		{
			user.POST("/update/:id", userHandler.Update)
			user.DELETE("/delete/:id", userHandler.Delete)
			user.GET("/listings/:id", userHandler.Listings)
		}

		listing := api.Group("/listing")
		{
			listing.GET("/get/:id", listingHandler.Get)
			listing.GET("/get", listingHandler.Search)
			listing.POST("/create", middleware.RequireAuth(tokens), listingHandler.Create)
			listing.POST("/upload", middleware.RequireAuth(tokens), listingHandler.Upload)
			listing.POST("/update/:id", middleware.RequireAuth(tokens), middleware.RequireListingOwner(), listingHandler.Update)
			listing.DELETE("/delete/:id", middleware.RequireAuth(tokens), middleware.RequireListingOwner(), listingHandler.Delete)
		}
	}

	return &testEnv{
		db:             db,
		router:         r,
		tokens:         tokens,
		mailer:         mailer,
		uploader:       uploader,
		authService:    authService,
		userService:    userService,
		listingService: listingService,
	}
}

// signupUser registers a user through the service layer and returns it.
func (env *testEnv) signupUser(t *testing.T, username, email, password string) *models.User {
	t.Helper()
	user, err := env.authService.Signup(services.SignupInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

// sessionCookie issues a session token for the user and wraps it in the
// cookie the middleware expects.
func (env *testEnv) sessionCookie(t *testing.T, userID uint64) *http.Cookie {
	t.Helper()
	token, err := env.tokens.IssueSession(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: constants.SessionCookieName, Value: token}
}
