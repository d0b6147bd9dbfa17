package api

import (
	"encoding/json"
	"log"

	"github.com/example/todo-app/modules/account"
	"github.com/example/todo-app/modules/session"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// RegisterForm describes the registration form for clients that fetch the
// page before submitting. There is no server-side HTML rendering; browser
// frontends render the form themselves.
func (h *Handlers) RegisterForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"action": "/account/register",
		"method": "POST",
		"fields": []string{"username", "email", "password", "confirm_password"},
	})
}

// LoginForm describes the login form.
func (h *Handlers) LoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"action": "/account/login",
		"method": "POST",
		"fields": []string{"username", "password"},
	})
}

// Register handles account registration. On success the user is logged in
// immediately: a session cookie is set and an access token returned.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	acctReq := account.RegisterRequest{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
	var resp account.RegisterResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.accountContainer,
		"register",
		json.Marshal,
		json.Unmarshal,
		&acctReq,
		&resp,
	); err != nil {
		return h.handleAccountError(c, err)
	}

	h.openSession(c, resp.ID)

	if wantsRedirect(c) {
		return c.Redirect("/", fiber.StatusFound)
	}

	return c.Status(fiber.StatusCreated).JSON(SessionResponse{
		User: UserResource{
			URL:      userURL(c, resp.ID),
			ID:       resp.ID,
			Username: resp.Username,
			Email:    resp.Email,
		},
		AccessToken: resp.AccessToken,
		TokenType:   "Bearer",
	})
}

// Login handles credential authentication. Failures surface as a user-visible
// message, never a server error.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	acctReq := account.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	}
	var resp account.LoginResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.accountContainer,
		"login",
		json.Marshal,
		json.Unmarshal,
		&acctReq,
		&resp,
	); err != nil {
		return h.handleAccountError(c, err)
	}

	h.openSession(c, resp.UserID)

	if wantsRedirect(c) {
		return c.Redirect("/", fiber.StatusFound)
	}

	user, err := h.accountAdapter.GetUser(c.UserContext(), resp.UserID)
	if err != nil {
		return h.handleAccountError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(SessionResponse{
		User: UserResource{
			URL:      userURL(c, user.ID),
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
	})
}

// Logout invalidates the session and redirects to the index.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if sessionID := c.Cookies(session.CookieName); sessionID != "" {
		if err := h.sessions.Delete(c.UserContext(), sessionID); err != nil {
			log.Printf("[api] Failed to delete session: %v", err)
		}
		c.ClearCookie(session.CookieName)
	}

	return c.Redirect("/", fiber.StatusFound)
}

// Verify redeems a verification token and activates the embedded account.
func (h *Handlers) Verify(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return badRequest(c, "Verification token is required")
	}

	acctReq := account.VerifyRequest{Token: token}
	var resp account.VerifyResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.accountContainer,
		"verify",
		json.Marshal,
		json.Unmarshal,
		&acctReq,
		&resp,
	); err != nil {
		return h.handleAccountError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(VerifyResponse{
		ID:       resp.ID,
		Username: resp.Username,
		Active:   resp.Active,
		Message:  "Email verified. Your account is now active.",
	})
}

// Index returns the authenticated caller's profile.
func (h *Handlers) Index(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	user, err := h.accountAdapter.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return h.handleAccountError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(UserResource{
		URL:      userURL(c, user.ID),
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// openSession creates a server-side session and sets the cookie. Session
// failures are logged but never fail the request: the access token in the
// response still authenticates the client.
func (h *Handlers) openSession(c *fiber.Ctx, userID string) {
	sessionID, err := h.sessions.Create(c.UserContext(), userID)
	if err != nil {
		log.Printf("[api] Failed to create session for %s: %v", userID, err)
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
