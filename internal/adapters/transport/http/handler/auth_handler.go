package handler

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/dto"
	authsvc "github.com/Miraines/MoonyAndStarry/task-service/internal/app/auth/service"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/infra/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const refreshCookie = "jid"

type authHandler struct {
	svc authsvc.Service
	cfg *config.Config
	log *zap.Logger
}

func (h *authHandler) signup(c *gin.Context) {
	var body dto.SignupDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	h.log.Info("signup", zap.String("user", emailDigest(body.Email)))

	s, err := h.svc.Signup(c.Request.Context(), body)
	if err != nil {
		handleError(c, err)
		return
	}
	h.setRefreshCookie(c, s)
	c.JSON(http.StatusCreated, gin.H{"accessToken": s.AccessToken, "user": s.User})
}

func (h *authHandler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	h.log.Info("login", zap.String("user", emailDigest(body.Email)))

	s, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		handleError(c, err)
		return
	}
	h.setRefreshCookie(c, s)
	c.JSON(http.StatusOK, gin.H{"accessToken": s.AccessToken, "user": s.User})
}

// refresh answers with a new access token; the jid cookie is left as is.
func (h *authHandler) refresh(c *gin.Context) {
	token, _ := c.Cookie(refreshCookie)
	s, err := h.svc.Refresh(c.Request.Context(), token)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken": s.AccessToken,
		"user":        gin.H{"id": s.User.ID, "email": s.User.Email},
	})
}

func (h *authHandler) logout(c *gin.Context) {
	token, _ := c.Cookie(refreshCookie)
	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		handleError(c, err)
		return
	}
	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *authHandler) setRefreshCookie(c *gin.Context, s model.Session) {
	c.SetSameSite(h.sameSite())
	c.SetCookie(
		refreshCookie,
		s.RefreshToken,
		int(s.RefreshTTL.Seconds()),
		h.cfg.CookiePath,
		h.cfg.CookieDomain,
		h.cfg.IsProduction(),
		true,
	)
}

func (h *authHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(h.sameSite())
	c.SetCookie(refreshCookie, "", -1, h.cfg.CookiePath, h.cfg.CookieDomain, h.cfg.IsProduction(), true)
}

func (h *authHandler) sameSite() http.SameSite {
	if h.cfg.IsProduction() {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// emailDigest keeps addresses out of the logs while still correlating requests.
func emailDigest(email string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email)))))
}
