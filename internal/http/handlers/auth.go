package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripgate/internal/clients/backendapi"
	"tripgate/internal/http/middleware"
	"tripgate/internal/session"
	"tripgate/internal/utils"
)

// AuthHandlers: the backend owns the credentials; this layer owns the
// session rows that replace the old local-storage identity.
type AuthHandlers struct {
	Backend  *backendapi.Client
	Sessions session.Store
}

// POST /api/admin/login
func (h AuthHandlers) Login(c *gin.Context) {
	var req backendapi.AdminLoginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	admin, err := h.Backend.AdminLogin(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	token, accessToken, sess, err := h.Sessions.Create(c.Request.Context(), admin)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", "admin_id="+formatID(admin.ID))
	RespondData(c, http.StatusOK, gin.H{
		"session_token": token,
		"access_token":  accessToken,
		"session":       sess,
		"admin":         admin,
	})
}

// POST /api/admin/logout
func (h AuthHandlers) Logout(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if ok {
		if err := h.Sessions.Destroy(c.Request.Context(), sess.ID); err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	RespondData(c, http.StatusOK, gin.H{"logged_out": true})
}

// GET /api/admin/me
func (h AuthHandlers) Me(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no active session", nil)
		return
	}
	RespondData(c, http.StatusOK, sess)
}

// POST /api/admin/register, super-admin only (enforced by middleware).
func (h AuthHandlers) Register(c *gin.Context) {
	var req backendapi.AdminRegisterRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	admin, err := h.Backend.AdminRegister(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, admin)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// PATCH /api/admin/password, always for the logged-in admin's own account.
func (h AuthHandlers) ChangePassword(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no active session", nil)
		return
	}

	var req changePasswordRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := h.Backend.ChangeAdminPassword(c.Request.Context(), sess.Email, req.OldPassword, req.NewPassword); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, gin.H{"changed": true})
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
