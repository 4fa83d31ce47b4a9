package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Username string `json:"username"`
}

type sessionResponse struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	User        userResponse `json:"user"`
}

type profileResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

func (h handler) Signup(c echo.Context) error {
	var request signupRequest
	if err := c.Bind(&request); err != nil {
		return badRequest(err)
	}

	session, err := h.auth.Signup(c.Request().Context(), request.Username, request.Email, request.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, sessionResponse{
		Message:     "User created",
		AccessToken: session.Token,
		User:        newUserResponse(session.User),
	})
}

func (h handler) Login(c echo.Context) error {
	var request loginRequest
	if err := c.Bind(&request); err != nil {
		return badRequest(err)
	}

	session, err := h.auth.Login(c.Request().Context(), request.Email, request.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Message:     "Login successful",
		AccessToken: session.Token,
		User:        newUserResponse(session.User),
	})
}

func (h handler) UpdateProfile(c echo.Context) error {
	var request updateProfileRequest
	if err := c.Bind(&request); err != nil {
		return badRequest(err)
	}

	user, err := h.auth.UpdateProfile(c.Request().Context(), currentUserID(c), request.Username)
	if err != nil {
		return toProfileHTTPError(err)
	}

	return c.JSON(http.StatusOK, profileResponse{
		Message: "Profile updated",
		User:    newUserResponse(user),
	})
}

func (h handler) DeleteAccount(c echo.Context) error {
	if err := h.auth.DeleteAccount(c.Request().Context(), currentUserID(c)); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Account deleted"})
}
