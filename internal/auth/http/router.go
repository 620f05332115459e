package http

import (
	"net/http"
	"time"

	"github.com/blogchat/backend/internal/auth/service"
	commonhttp "github.com/blogchat/backend/internal/common/http"
	"github.com/blogchat/backend/internal/common/logger"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type loginResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    userdomain.Public `json:"user"`
}

type Handler struct {
	auth     *service.AuthService
	tokenTTL time.Duration
	log      *logger.Logger
	mux      *http.ServeMux
}

func NewHandler(auth *service.AuthService, tokenTTL, requestTimeout time.Duration, log *logger.Logger) *Handler {
	h := &Handler{auth: auth, tokenTTL: tokenTTL, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(requestTimeout)(h.register)))
	mux.HandleFunc("/api/auth/login", commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(requestTimeout)(h.login)))
	mux.HandleFunc("/api/auth/logout", commonhttp.RequireMethod(http.MethodPost)(h.logout))
	h.mux = mux
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if violations := commonhttp.ValidateStruct(req); violations != nil {
		commonhttp.WriteValidationError(w, violations)
		return
	}

	_, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, registerResponse{
		Success: true,
		Message: "user registered successfully",
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if violations := commonhttp.ValidateStruct(req); violations != nil {
		commonhttp.WriteValidationError(w, violations)
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	setTokenCookie(w, r, result.Token, h.tokenTTL)
	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	clearTokenCookie(w, r)
	commonhttp.WriteJSON(w, http.StatusOK, registerResponse{
		Success: true,
		Message: "logged out",
	})
}

func setTokenCookie(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
	})
}

func clearTokenCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
	})
}
