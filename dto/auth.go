package dto

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,username_format"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"omitempty,max=50"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ConvertAnonymousRequest struct {
	Username string `json:"username" validate:"required,username_format"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r ConvertAnonymousRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
