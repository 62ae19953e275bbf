package marketserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
)

// UserAPI serves registration and the session lifecycle.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI wires dependencies.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

// Post /api/users/register
// Create an account
func (api *UserAPI) Register(c *gin.Context) {
	var payload userhttpmapper.RegisterUser
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully!",
		"user":    userhttpmapper.FromDomainUser(user),
	})
}

// Post /api/users/login
// Exchange credentials for a bearer token
func (api *UserAPI) Login(c *gin.Context) {
	var payload userhttpmapper.Credentials
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	session := userhttpmapper.FromLoginResult(result)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Logged in successfully!",
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.User,
	})
}

// Post /api/users/logout
// End the caller's session
func (api *UserAPI) Logout(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	if err := api.service.Logout(c.Request.Context(), caller); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully!"})
}
