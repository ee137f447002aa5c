package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"jyotikabilling/config"
	"jyotikabilling/models"
	"jyotikabilling/repository"
	"jyotikabilling/utils"
)

const defaultRole = "staff"

type UserHandler struct {
	Repo   repository.UserRepository
	Tokens *utils.TokenIssuer
}

func (h *UserHandler) session(user *models.AppUser) (models.Session, error) {
	token, err := h.Tokens.JwtGenerate(user.ID, user.Email, user.Role)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

// Register handler
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var user models.AppUser
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Name == "" || user.Email == "" || user.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}
	if user.Role == "" {
		user.Role = defaultRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		config.LogError(logger, "handlers", "Register", "hash password", nil, err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	user.Password = string(hashed)

	if err := h.Repo.CreateUser(r.Context(), &user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			writeError(w, http.StatusConflict, "Email already exists")
			return
		}
		config.LogError(logger, "handlers", "Register", "create user", user.Email, err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	sess, err := h.session(&user)
	if err != nil {
		config.LogError(logger, "handlers", "Register", "sign token", user.Email, err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Message: "User registered successfully",
		Data:    sess,
	})
}

// Login handler
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.Repo.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		config.LogError(logger, "handlers", "Login", "lookup user", creds.Email, err)
	}
	if err != nil || user == nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	sess, err := h.session(user)
	if err != nil {
		config.LogError(logger, "handlers", "Login", "sign token", user.Email, err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Login successful",
		Data:    sess,
	})
}
