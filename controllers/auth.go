package controllers

import (
	"net/http"
	"time"

	"invoice-dashboard/services"
	"invoice-dashboard/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth         *services.AuthService
	CookieSecure bool
}

func (ac *AuthController) Login(c *gin.Context) {
	if !parseForm(c) {
		return
	}

	session, message, err := ac.Auth.Authenticate(c.Request.Context(), c.Request.PostForm)
	if err != nil {
		// Not an authentication failure: let the error surface.
		_ = c.Error(err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if message != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": message})
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.TokenCookie, session.Token, maxAge, "/", "", ac.CookieSecure, true)

	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.TokenCookie, "", -1, "/", "", ac.CookieSecure, true)
	c.Redirect(http.StatusSeeOther, "/login")
}
