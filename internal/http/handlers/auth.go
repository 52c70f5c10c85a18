package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/staffhub/internal/auth"
	"github.com/geocoder89/staffhub/internal/domain/user"
	"github.com/geocoder89/staffhub/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/auth"
)

type UserStore interface {
	Create(ctx context.Context, u user.User) error
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthHandler struct {
	users         UserStore
	sessions      auth.SessionStore
	jwt           *auth.Manager
	refreshTTL    time.Duration
	secureCookies bool
	log           *slog.Logger
}

func NewAuthHandler(users UserStore, sessions auth.SessionStore, jwt *auth.Manager, refreshTTL time.Duration, secureCookies bool, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:         users,
		sessions:      sessions,
		jwt:           jwt,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
		log:           log,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := security.ValidatePassword(req.Password); err != nil {
		RespondError(ctx, http.StatusBadRequest, "invalid_password", err.Error(), nil)
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		h.log.Error("hash password", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	role := req.Role
	if role == "" {
		role = user.RoleEmployee
	}

	hobbies := req.Hobbies
	if hobbies == nil {
		hobbies = []string{}
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		Hobbies:      hobbies,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.Create(ctx.Request.Context(), u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondError(ctx, http.StatusBadRequest, "email_taken", "Email already in use", nil)
			return
		}

		h.log.Error("create user", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	access, err := h.issueSession(ctx, u)
	if err != nil {
		h.log.Error("issue session", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": u, "accessToken": access})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.users.GetByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// same message as a bad password, no account probing
			RespondUnAuthorized(ctx, "invalid_credentials", "Invalid email or password")
			return
		}

		h.log.Error("login lookup", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	if err := security.CheckPassword(u.PasswordHash, req.Password); err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Invalid email or password")
		return
	}

	access, err := h.issueSession(ctx, u)
	if err != nil {
		h.log.Error("issue session", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u, "accessToken": access})
}

func (h *AuthHandler) Refresh(ctx *gin.Context) {
	raw, err := ctx.Cookie(refreshCookieName)
	if err != nil || raw == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing refresh token")
		return
	}

	claims, err := h.jwt.VerifyRefreshToken(raw)
	if err != nil {
		h.clearRefreshCookie(ctx)
		RespondUnAuthorized(ctx, "unauthorized", "Invalid refresh token")

		return
	}

	u, err := h.users.GetByID(ctx.Request.Context(), claims.UserID)
	if err != nil {
		h.clearRefreshCookie(ctx)
		RespondUnAuthorized(ctx, "unauthorized", "Invalid refresh token")

		return
	}

	nextRaw, nextJTI, expiresAt, err := h.jwt.GenerateRefreshToken(u.ID, u.Email, u.Role)
	if err != nil {
		h.log.Error("generate refresh token", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	presentedHash := h.jwt.HashRefreshToken(raw)
	now := time.Now().UTC()

	next := auth.Session{
		ID:        nextJTI,
		UserID:    u.ID,
		TokenHash: h.jwt.HashRefreshToken(nextRaw),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	err = h.sessions.Rotate(ctx.Request.Context(), claims.JTI, func(s auth.Session) error {
		return s.Check(presentedHash, now)
	}, next)

	if err != nil {
		if errors.Is(err, auth.ErrSessionRevoked) {
			// reuse of a rotated token, revoke the whole family
			if revokeErr := h.sessions.RevokeAllForUser(ctx.Request.Context(), u.ID); revokeErr != nil {
				h.log.Error("revoke sessions after reuse", "error", revokeErr)
			}
		}

		if errors.Is(err, auth.ErrSessionNotFound) ||
			errors.Is(err, auth.ErrSessionRevoked) ||
			errors.Is(err, auth.ErrSessionExpired) ||
			errors.Is(err, auth.ErrSessionMismatch) {
			h.clearRefreshCookie(ctx)
			RespondUnAuthorized(ctx, "unauthorized", "Invalid refresh token")

			return
		}

		h.log.Error("rotate session", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	access, err := h.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		h.log.Error("generate access token", "error", err)
		RespondInternal(ctx, "Something went wrong")

		return
	}

	h.setRefreshCookie(ctx, nextRaw)
	ctx.JSON(http.StatusOK, gin.H{"accessToken": access})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	raw, err := ctx.Cookie(refreshCookieName)
	if err == nil && raw != "" {
		if claims, verifyErr := h.jwt.VerifyRefreshToken(raw); verifyErr == nil {
			if revokeErr := h.sessions.Revoke(ctx.Request.Context(), claims.JTI); revokeErr != nil {
				h.log.Error("revoke session", "error", revokeErr)
			}
		}
	}

	h.clearRefreshCookie(ctx)
	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) issueSession(ctx *gin.Context, u user.User) (string, error) {
	access, err := h.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return "", err
	}

	raw, jti, expiresAt, err := h.jwt.GenerateRefreshToken(u.ID, u.Email, u.Role)
	if err != nil {
		return "", err
	}

	s := auth.Session{
		ID:        jti,
		UserID:    u.ID,
		TokenHash: h.jwt.HashRefreshToken(raw),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.sessions.Save(ctx.Request.Context(), s); err != nil {
		return "", err
	}

	h.setRefreshCookie(ctx, raw)

	return access, nil
}

func (h *AuthHandler) setRefreshCookie(ctx *gin.Context, raw string) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(refreshCookieName, raw, int(h.refreshTTL.Seconds()), refreshCookiePath, "", h.secureCookies, true)
}

func (h *AuthHandler) clearRefreshCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", h.secureCookies, true)
}
