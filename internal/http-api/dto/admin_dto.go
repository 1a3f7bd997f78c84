package dto

// UpdateRoleRequest: payload to change a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UserResponse: account info exposed to librarians
type UserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
