package dto

type SignupDTO struct {
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Name     *string `json:"name"     validate:"omitempty,max=100"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProjectDTO struct {
	Title       string  `json:"title"       validate:"required,min=1"`
	Description *string `json:"description"`
}

type CreateTaskDTO struct {
	ProjectID   uint    `json:"projectId"   validate:"required"`
	Title       string  `json:"title"       validate:"required,min=1"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"    validate:"omitempty,max=32"`
	Status      *string `json:"status"      validate:"omitempty,oneof=pending inprogress done"`
	DueDate     *string `json:"dueDate"`
}

// UpdateTaskDTO is a partial CreateTaskDTO: nil fields are left untouched.
type UpdateTaskDTO struct {
	ProjectID   *uint   `json:"projectId"   validate:"omitempty,gt=0"`
	Title       *string `json:"title"       validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"    validate:"omitempty,max=32"`
	Status      *string `json:"status"      validate:"omitempty,oneof=pending inprogress done"`
	DueDate     *string `json:"dueDate"`
}

type TaskSearchDTO struct {
	ProjectID string `form:"projectId"`
	Q         string `form:"q"`
	Status    string `form:"status"`
	Priority  string `form:"priority"`
}
