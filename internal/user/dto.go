package user

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UserDetailResponse struct {
	UserResponse
	ManagerName  *string `json:"manager_name,omitempty"`
	ManagerChain []int64 `json:"manager_chain,omitempty"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}
