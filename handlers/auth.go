package handlers

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"budgetwise-go-be/auth"
	"budgetwise-go-be/models"
	"budgetwise-go-be/repositories"
)

// UserStore is the slice of user storage the auth routes need. Satisfied by
// repositories.UserStore; tests substitute an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Exists(ctx context.Context, username, email string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthHandler serves signup, login and the caller-profile route.
type AuthHandler struct {
	Users       UserStore
	Secret      string
	ExpiryHours int
}

func NewAuthHandler(users UserStore, secret string, expiryHours int) *AuthHandler {
	return &AuthHandler{Users: users, Secret: secret, ExpiryHours: expiryHours}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
	}
	if len(req.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
	}

	taken, err := h.Users.Exists(c.UserContext(), username, email)
	if err != nil {
		log.Printf("Error checking existing user: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create user")
	}
	if taken {
		return fiber.NewError(fiber.StatusConflict, "User already exists")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create user")
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := h.Users.Create(c.UserContext(), &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return fiber.NewError(fiber.StatusConflict, "User already exists")
		}
		log.Printf("Error creating user: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "User created successfully",
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
	}

	user, err := h.Users.FindByUsername(c.UserContext(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		log.Printf("Error fetching user: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, expiresAt, err := auth.CreateAccessToken(user.ID, h.Secret, h.ExpiryHours)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}

	return c.JSON(fiber.Map{
		"message":      "Login successful",
		"access_token": token,
		"expires_at":   expiresAt,
		"user_id":      user.ID,
		"username":     user.Username,
		"email":        user.Email,
	})
}

// Me returns the authenticated caller's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.Users.FindByID(c.UserContext(), userIDFromCtx(c))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		log.Printf("Error fetching user: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch user")
	}
	return c.JSON(user)
}
