package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"
	"github.com/tendant/simple-account/pkg/account"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/tokengenerator"
)

const (
	RegisteredMessage         = "Registration successful. Please verify your email."
	VerifiedMessage           = "Email verified successfully. You can now login."
	InvalidBodyMessage        = "Invalid request body"
	MissingCredentialsMessage = "Email and password are required"
	UnauthorizedMessage       = "Unauthorized"
)

var errUnauthorized = apperrors.New(apperrors.ErrCodeUnauthorized, UnauthorizedMessage)

// Handle serves the account HTTP routes
type Handle struct {
	service   *account.AccountService
	tokenAuth *jwtauth.JWTAuth
}

// NewHandle creates a Handle. tokenAuth must share the session token secret.
func NewHandle(service *account.AccountService, tokenAuth *jwtauth.JWTAuth) *Handle {
	return &Handle{
		service:   service,
		tokenAuth: tokenAuth,
	}
}

// Routes returns a router to be mounted under the API prefix
func Routes(h *Handle) http.Handler {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Get("/verify/{token}", h.Verify)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verify(h.tokenAuth, jwtauth.TokenFromHeader))
		r.Use(sessionAuthenticator)
		r.Get("/me", h.Me)
	})

	return r
}

// Register handles POST /register
func (h *Handle) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	if err := h.service.Register(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, MessageResponse{Message: RegisteredMessage})
}

// Verify handles GET /verify/{token}
func (h *Handle) Verify(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.PlainText(w, r, VerifiedMessage)
}

// Login handles POST /login
func (h *Handle) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, LoginResponse{Token: result.Token})
}

// Me handles GET /me for a bearer of a valid session token
func (h *Handle) Me(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())
	accountID, _ := claims["sub"].(string)

	acct, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeUnknownAccount) {
			// token outlived its account
			writeError(w, r, errUnauthorized)
			return
		}
		writeError(w, r, err)
		return
	}

	var resp MeResponse
	if err := copier.Copy(&resp, acct); err != nil {
		writeError(w, r, apperrors.InternalWrap(err, "failed to map account"))
		return
	}
	resp.Verified = acct.IsVerified()

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// sessionAuthenticator rejects requests without a verified session token.
// Verification tokens share the signing key, so token_use is checked too.
func sessionAuthenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			writeError(w, r, errUnauthorized)
			return
		}

		use, _ := claims["token_use"].(string)
		sub, _ := claims["sub"].(string)
		if use != tokengenerator.SESSION_TOKEN_USE || sub == "" {
			writeError(w, r, errUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		slog.Info("Failed to decode request body", "path", r.URL.Path, "error", err)
		writeMessage(w, r, http.StatusBadRequest, InvalidBodyMessage)
		return req, false
	}
	if !req.Validate() {
		writeMessage(w, r, http.StatusBadRequest, MissingCredentialsMessage)
		return req, false
	}
	return req, true
}

// writeError maps err to a status and message. Unexpected failures are logged
// and surface only the generic server error text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.MapErrorCodeToHTTPStatus(apperrors.GetCode(err))
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		slog.Info("Request rejected", "method", r.Method, "path", r.URL.Path, "code", apperrors.GetCode(err))
	}
	writeMessage(w, r, status, account.PublicMessage(err))
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, MessageResponse{Message: message})
}
