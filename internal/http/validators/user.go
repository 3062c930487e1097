package validators

import (
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/services"
)

func ValidateRegisterRequest(r *dto.RegisterRequest) (services.RegisterParams, error) {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return services.RegisterParams{}, apperrors.ErrMissingUserFields
	}

	return services.RegisterParams{
		Name:             r.Name,
		Email:            r.Email,
		Password:         r.Password,
		ProfileImageURL:  r.ProfileImageURL,
		AdminInviteToken: r.AdminInviteToken,
	}, nil
}

func ValidateLoginRequest(r *dto.LoginRequest) (services.LoginParams, error) {
	if r.Email == "" || r.Password == "" {
		return services.LoginParams{}, apperrors.ErrInvalidCredentials
	}

	return services.LoginParams{
		Email:    r.Email,
		Password: r.Password,
	}, nil
}

func ValidateUpdateProfileRequest(r *dto.UpdateProfileRequest) services.UpdateProfileParams {
	return services.UpdateProfileParams{
		Name:            r.Name,
		Email:           r.Email,
		Password:        r.Password,
		ProfileImageURL: r.ProfileImageURL,
	}
}
