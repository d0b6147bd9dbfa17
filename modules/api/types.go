package api

// RegisterRequest represents a registration form submission.
type RegisterRequest struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// LoginRequest represents a login form submission.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// UserResource is the hyperlinked representation of a user.
type UserResource struct {
	URL      string `json:"url"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SessionResponse is returned to API clients after register/login.
type SessionResponse struct {
	User        UserResource `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

// VerifyResponse reports a successful verification redemption.
type VerifyResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Active   bool   `json:"active"`
	Message  string `json:"message"`
}

// TodoListResource is the hyperlinked representation of a todo list.
type TodoListResource struct {
	URL  string `json:"url"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TodoListWriteRequest creates or updates a todo list.
type TodoListWriteRequest struct {
	Name string `json:"name" form:"name"`
}

// TaskResource is the hyperlinked representation of a task.
type TaskResource struct {
	URL       string `json:"url"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	DueDate   string `json:"due_date"`
	Completed bool   `json:"completed"`
	List      string `json:"list"`
}

// TaskWriteRequest creates or updates a task. Pointer fields distinguish
// omitted values for partial updates.
type TaskWriteRequest struct {
	Name      *string `json:"name" form:"name"`
	DueDate   *string `json:"due_date" form:"due_date"`
	Completed *bool   `json:"completed" form:"completed"`
	List      *string `json:"list" form:"list"`
}

// BulkActionRequest selects tasks for an administrative bulk action.
type BulkActionRequest struct {
	IDs []string `json:"ids" form:"ids"`
}

// BulkActionResponse reports the result of a bulk action.
type BulkActionResponse struct {
	Count   int64  `json:"count"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
