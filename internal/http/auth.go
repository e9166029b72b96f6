package http

import (
	"errors"
	"log"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/auth"
	"github.com/mrlokans/booktracker/internal/database/users"
	"github.com/mrlokans/booktracker/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AuthController serves registration, login and profile endpoints.
type AuthController struct {
	service       *auth.Service
	auditor       Auditor
	tokenExpiry   time.Duration
	secureCookies bool
}

// NewAuthController creates the auth controller.
func NewAuthController(service *auth.Service, auditor Auditor, tokenExpiry time.Duration, secureCookies bool) *AuthController {
	return &AuthController{
		service:       service,
		auditor:       auditor,
		tokenExpiry:   tokenExpiry,
		secureCookies: secureCookies,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and issues a session token. The token is
// returned in the body and mirrored in an httpOnly cookie.
func (controller *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if !emailPattern.MatchString(req.Email) {
		respondBadRequest(c, "Invalid email address")
		return
	}
	if len(req.Password) < 8 {
		respondBadRequest(c, "Password must be at least 8 characters")
		return
	}
	if len(req.Name) < 2 {
		respondBadRequest(c, "Name must be at least 2 characters")
		return
	}

	result, err := controller.service.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			respondConflict(c, "User with this email already exists")
			return
		}
		respondInternalError(c, err, "register")
		return
	}

	controller.audit(result.User.ID, "register", "user registered")
	controller.setTokenCookie(c, result.Token)
	respondCreated(c, result)
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password yield the same message.
func (controller *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if !emailPattern.MatchString(req.Email) {
		respondBadRequest(c, "Invalid email address")
		return
	}
	if req.Password == "" {
		respondBadRequest(c, "Password is required")
		return
	}

	result, err := controller.service.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondUnauthorized(c, "Invalid credentials")
			return
		}
		respondInternalError(c, err, "login")
		return
	}

	controller.audit(result.User.ID, "login", "user logged in")
	controller.setTokenCookie(c, result.Token)
	respondData(c, result)
}

// Logout clears the token cookie. The token itself stays valid until it
// expires; there is no server-side session to revoke.
func (controller *AuthController) Logout(c *gin.Context) {
	c.SetCookie(auth.TokenCookieName, "", -1, "/", "", controller.secureCookies, true)
	respondMessage(c, "Logged out")
}

// Me returns the current user's public profile.
func (controller *AuthController) Me(c *gin.Context) {
	user, err := controller.service.GetUserByID(GetUserID(c))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "me")
		return
	}
	respondData(c, user)
}

// DeleteMe removes the current user's account along with their books,
// reviews and reading goals.
func (controller *AuthController) DeleteMe(c *gin.Context) {
	userID := GetUserID(c)
	if err := controller.service.DeleteUser(userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "delete user")
		return
	}

	controller.audit(userID, "user_delete", "account deleted")
	c.SetCookie(auth.TokenCookieName, "", -1, "/", "", controller.secureCookies, true)
	respondMessage(c, "Account deleted")
}

func (controller *AuthController) setTokenCookie(c *gin.Context, token string) {
	maxAge := int(controller.tokenExpiry / time.Second)
	c.SetCookie(auth.TokenCookieName, token, maxAge, "/", "", controller.secureCookies, true)
}

func (controller *AuthController) audit(userID uint, action, description string) {
	if controller.auditor == nil {
		return
	}
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventAuth,
		Action:      action,
		Description: description,
		EntityType:  "user",
		Status:      entities.AuditStatusSuccess,
	}
	if err := controller.auditor.LogEvent(event); err != nil {
		// Audit failures must not fail the request.
		log.Printf("Failed to record audit event (%s): %v", action, err)
	}
}
