package httpserver

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Password  string `json:"password"`
}

type registerResponse struct {
	Message string          `json:"message"`
	User    *models.Profile `json:"user"`
}

type profileResponse struct {
	User *models.Profile `json:"user"`
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, codeInvalidInput, "request body must be a JSON object")
		return
	}

	u, err := s.users.Register(c.Request.Context(), services.RegisterInput{
		UserName:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registerResponse{Message: "User registered successfully", User: u.Profile()})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, codeInvalidInput, "username and password are required")
		return
	}

	ip := c.ClientIP()
	if retryAfter := s.limiter.RetryAfter(ip); retryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		abortWithError(c, http.StatusTooManyRequests, codeTooManyAttempts, "Too many failed attempts, try again later")
		return
	}

	tok, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			remaining := s.limiter.RecordFailure(ip)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":              codeInvalidCredentials,
				"message":           msgInvalidCredentials,
				"remainingAttempts": remaining,
			})
			return
		}
		writeError(c, err)
		return
	}

	s.limiter.Reset(ip)
	c.JSON(http.StatusOK, loginResponse{Token: tok.AccessToken})
}

func (s *HTTPServer) me(c *gin.Context) {
	c.JSON(http.StatusOK, profileResponse{User: profileFrom(c)})
}

func (s *HTTPServer) logout(c *gin.Context) {
	token := c.GetString(ctxKeyToken)
	if err := s.users.Revoke(c.Request.Context(), token); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
