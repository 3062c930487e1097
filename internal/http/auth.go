package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	middleware "task-manager.com/task-manager/internal/http/middlewares"
	"task-manager.com/task-manager/internal/http/validators"
	"task-manager.com/task-manager/internal/services"
)

const multipartOverhead = 64 << 10

var allowedImageExts = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
}

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

func (h *Handler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	params, err := validators.ValidateRegisterRequest(&req)
	if err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse(result))
}

func (h *Handler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	params, err := validators.ValidateLoginRequest(&req)
	if err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse(result))
}

func (h *Handler) GetProfile(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return apperrors.ErrUnauthorized
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}

	user, err := h.userService.UpdateProfile(
		c.Request().Context(),
		middleware.CurrentIdentity(c),
		validators.ValidateUpdateProfileRequest(&req),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return apperrors.ErrImageRequired
	}

	if file.Size > h.uploads.MaxBytes {
		return apperrors.ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedImageExts[ext]; !ok {
		return apperrors.ErrInvalidImageType
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return apperrors.ErrInvalidImageType
	}
	head = head[:n]
	if _, ok := allowedImageTypes[http.DetectContentType(head)]; !ok {
		return apperrors.ErrInvalidImageType
	}

	name := uuid.NewString() + ext
	path := filepath.Join(h.uploads.Dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	defer dst.Close()

	// the size header is client supplied; cap what is actually copied
	limited := io.LimitReader(io.MultiReader(bytes.NewReader(head), src), h.uploads.MaxBytes+1)
	written, err := io.Copy(dst, limited)
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("store upload: %w", err)
	}
	if written > h.uploads.MaxBytes {
		_ = os.Remove(path)
		return apperrors.ErrImageTooLarge
	}

	h.logger.Info().
		Str("file", name).
		Int64("size", written).
		Msg("stored image upload")

	imageURL := fmt.Sprintf("%s://%s/uploads/%s", c.Scheme(), c.Request().Host, name)
	return c.JSON(http.StatusOK, dto.ImageUploadResponse{ImageURL: imageURL})
}

func authResponse(result *services.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User:  *result.User,
		Token: result.Token,
	}
}
