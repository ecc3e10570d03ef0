package request

// RegisterRequest 注册请求
// 使用位置:
//   - handler/auth_handler.go: Register
//
// 安全问题可选，设置时问题和答案需同时提供
type RegisterRequest struct {
	Handle           string `json:"handle" binding:"required,min=3,max=32"`
	Nickname         string `json:"nickname" binding:"omitempty,max=32"`
	Password         string `json:"password" binding:"required,min=6,max=64"`
	SecurityQuestion string `json:"security_question" binding:"required_with=SecurityAnswer,max=255"`
	SecurityAnswer   string `json:"security_answer" binding:"required_with=SecurityQuestion,max=64"`
}

// LoginRequest 登录请求
// 使用位置:
//   - handler/auth_handler.go: Login
type LoginRequest struct {
	Handle   string `json:"handle" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CheckHandleRequest 登录名可用性检查
// 使用位置:
//   - handler/auth_handler.go: CheckHandle
type CheckHandleRequest struct {
	Handle string `form:"handle" binding:"required,max=32"`
}

// SecurityQuestionRequest 查询安全问题
// 使用位置:
//   - handler/auth_handler.go: SecurityQuestion
type SecurityQuestionRequest struct {
	Handle string `form:"handle" binding:"required"`
}

// ResetPasswordRequest 通过安全问题答案重置密码
// 使用位置:
//   - handler/auth_handler.go: ResetPassword
type ResetPasswordRequest struct {
	Handle      string `json:"handle" binding:"required"`
	Answer      string `json:"answer" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}

// ChangePasswordRequest 登录后修改密码
// VerificationType 为 password 时校验 OldPassword，为 question 时校验 Answer
// 使用位置:
//   - handler/user_handler.go: ChangePassword
type ChangePasswordRequest struct {
	VerificationType string `json:"verification_type" binding:"required,oneof=password question"`
	OldPassword      string `json:"old_password"`
	Answer           string `json:"answer"`
	NewPassword      string `json:"new_password" binding:"required,min=6,max=64"`
}
