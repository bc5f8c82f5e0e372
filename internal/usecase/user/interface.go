package user

import "context"

// Service defines the user operations exposed to the transport layer.
type Service interface {
	SignUp(ctx context.Context, in SignUpRequest) (*AuthResponse, error)
	LogIn(ctx context.Context, in LogInRequest) (*AuthResponse, error)
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
}

var _ Service = (*Usecase)(nil)
