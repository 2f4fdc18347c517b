package dto

// RegisterDTO is the sign-up payload.
type RegisterDTO struct {
	FullName  string  `json:"full_name" binding:"required,max=200"`
	Username  string  `json:"username" binding:"required,max=100"`
	Password  string  `json:"password" binding:"required,min=4"`
	TabNumber *string `json:"tab_number"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponseDTO is returned on successful login; the same token is also set
// as the session cookie.
type AuthResponseDTO struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	FullName string `json:"full_name"`
	IsAdmin  bool   `json:"is_admin"`
}

type UserResponseDTO struct {
	ID        uint    `json:"id"`
	FullName  string  `json:"full_name"`
	Username  string  `json:"username"`
	TabNumber *string `json:"tab_number,omitempty"`
	IsAdmin   bool    `json:"is_admin"`
}
