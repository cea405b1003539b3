package api

import (
	"net/http"                        // HTTP status codes
	"strings"                         // String manipulation
	"stock_portfolio/internal/domain" // Importing domain models
	"stock_portfolio/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest holds the registration form fields
type RegisterRequest struct {
	Username     string `json:"username" form:"username" binding:"required"` // Username must be provided
	Password     string `json:"password" form:"password" binding:"required"` // Password must be provided
	Confirmation string `json:"confirmation" form:"confirmation"`            // Password confirmation
}

// LoginRequest holds the login form fields
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"` // Username must be provided
	Password string `json:"password" form:"password" binding:"required"` // Password must be provided
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Token string `json:"token"` // Session token
}

// RegisterHandler creates a new user with the starting cash balance.
// Registration does not establish a session; the client logs in afterwards.
func RegisterHandler(db *gorm.DB, startingCash float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			// Missing username or password
			c.JSON(http.StatusBadRequest, gin.H{"error": "Must provide username and password"})
			return
		}
		// Password and confirmation must match
		if req.Password != req.Confirmation {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password and confirmation do not match"})
			return
		}
		username := strings.ToLower(strings.TrimSpace(req.Username)) // Usernames are stored lowercase
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Must provide username and password"})
			return
		}
		// Reject taken usernames before hashing
		var existing domain.User
		if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		// Hash the password; the plaintext is never stored
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Create the user with the starting cash balance
		user := domain.User{Username: username, Password: string(hash), Cash: startingCash}
		if err := db.Create(&user).Error; err != nil {
			// Unique index backstop for a concurrent duplicate registration
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		// Log successful registration
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,      // New user ID
			"username": username,     // Username
			"cash":     startingCash, // Starting cash balance
		}).Info("User registered")
		// Return success response; no session token is issued here
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

// LoginHandler authenticates a user and establishes a session. The token is
// returned in the body and set as the session cookie.
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Must provide username and password"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("username = ?", strings.ToLower(req.Username)).First(&user).Error; err != nil {
			// Unknown username and bad password share one message
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username and/or password"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username and/or password"})
			return
		}
		// Mint the session token
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Set the session cookie for browser clients
		c.SetCookie(utils.SessionCookie, token, int(utils.SessionTTL.Seconds()), "/", "", false, true)
		c.JSON(http.StatusOK, AuthResponse{Token: token}) // Return the token in the response
	}
}

// LogoutHandler clears the session cookie. Idempotent.
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Expire the session cookie immediately
		c.SetCookie(utils.SessionCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
