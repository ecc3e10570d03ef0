package user

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"presence_chat_server/internal/dao/database/repository"
	"presence_chat_server/internal/dto/request"
	"presence_chat_server/internal/dto/respond"
	"presence_chat_server/internal/infrastructure/credential"
	"presence_chat_server/internal/model"
	"presence_chat_server/pkg/errorx"
	"presence_chat_server/pkg/util/jwt"
)

const (
	verifyByPassword = "password"
	verifyByQuestion = "question"
)

// Reachability 查询身份当前是否在线
type Reachability interface {
	IsReachable(identity uint) bool
}

// userInfoService 用户注册、登录与资料
type userInfoService struct {
	repos    *repository.Repositories
	verifier credential.Verifier
	online   Reachability
}

// NewUserService 构造函数，verifier 为 nil 时使用默认 bcrypt
func NewUserService(repos *repository.Repositories, verifier credential.Verifier, online Reachability) *userInfoService {
	if verifier == nil {
		verifier = credential.NewBcryptVerifier(0)
	}
	return &userInfoService{repos: repos, verifier: verifier, online: online}
}

// Register 注册并直接登录
func (u *userInfoService) Register(ctx context.Context, req request.RegisterRequest) (*respond.LoginRespond, error) {
	handle := strings.TrimSpace(req.Handle)
	if handle == "" {
		return nil, errorx.ErrInvalidParam
	}
	_, err := u.repos.User.FindByHandle(handle)
	switch {
	case err == nil:
		return nil, errorx.New(errorx.CodeUserExist, "该登录名已被注册")
	case !errorx.IsNotFound(err):
		zap.L().Error("find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	hash, err := u.verifier.Hash(req.Password)
	if err != nil {
		zap.L().Error("hash password error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		nickname = handle
	}
	user := &model.User{Handle: handle, Nickname: nickname, PasswordHash: hash}
	if question := strings.TrimSpace(req.SecurityQuestion); question != "" {
		answerHash, err := u.verifier.Hash(strings.TrimSpace(req.SecurityAnswer))
		if err != nil {
			zap.L().Error("hash security answer error", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		user.SecurityQuestion = question
		user.SecurityAnswerHash = answerHash
	}
	if err := u.repos.User.Create(user); err != nil {
		// 唯一索引冲突视为并发注册
		if _, findErr := u.repos.User.FindByHandle(handle); findErr == nil {
			return nil, errorx.New(errorx.CodeUserExist, "该登录名已被注册")
		}
		zap.L().Error("create user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	zap.L().Info("user registered", zap.Uint("user", user.ID), zap.String("handle", handle))
	return u.loginRespond(user)
}

// Login 密码登录
func (u *userInfoService) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := u.repos.User.FindByHandle(strings.TrimSpace(req.Handle))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在，请注册")
		}
		zap.L().Error("find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !u.verifier.Verify(req.Password, user.PasswordHash) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "密码不正确，请重试")
	}
	return u.loginRespond(user)
}

// GetUserDetail 用户资料及在线状态
func (u *userInfoService) GetUserDetail(ctx context.Context, userID uint) (*respond.UserDetailRespond, error) {
	user, err := u.repos.User.FindByID(userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.UserDetailRespond{
		UserID:    user.ID,
		Handle:    user.Handle,
		Nickname:  user.DisplayName(),
		CreatedAt: user.CreatedAt.Format(time.DateTime),
		Online:    u.online != nil && u.online.IsReachable(user.ID),
	}, nil
}

// CheckHandle 登录名是否还能注册
func (u *userInfoService) CheckHandle(ctx context.Context, handle string) (*respond.HandleCheckRespond, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errorx.ErrInvalidParam
	}
	_, err := u.repos.User.FindByHandle(handle)
	switch {
	case err == nil:
		return &respond.HandleCheckRespond{Handle: handle, Available: false}, nil
	case errorx.IsNotFound(err):
		return &respond.HandleCheckRespond{Handle: handle, Available: true}, nil
	default:
		zap.L().Error("find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
}

// SecurityQuestion 账号的安全问题
// 账号不存在与未设置问题都返回空串
func (u *userInfoService) SecurityQuestion(ctx context.Context, handle string) (*respond.SecurityQuestionRespond, error) {
	user, err := u.repos.User.FindByHandle(strings.TrimSpace(handle))
	if err != nil {
		if errorx.IsNotFound(err) {
			return &respond.SecurityQuestionRespond{}, nil
		}
		zap.L().Error("find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.SecurityQuestionRespond{Question: user.SecurityQuestion}, nil
}

// ResetPassword 回答安全问题后重置密码
func (u *userInfoService) ResetPassword(ctx context.Context, req request.ResetPasswordRequest) error {
	user, err := u.repos.User.FindByHandle(strings.TrimSpace(req.Handle))
	if err != nil {
		if errorx.IsNotFound(err) {
			return errWrongAnswer
		}
		zap.L().Error("find user error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if !u.answerMatches(user, req.Answer) {
		return errWrongAnswer
	}
	if err := u.setPassword(user.ID, req.NewPassword); err != nil {
		return err
	}
	zap.L().Info("password reset by security answer", zap.Uint("user", user.ID))
	return nil
}

// ChangePassword 登录用户修改密码，旧密码或安全问题答案二选一校验
func (u *userInfoService) ChangePassword(ctx context.Context, userID uint, req request.ChangePasswordRequest) error {
	user, err := u.repos.User.FindByID(userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("find user error", zap.Error(err))
		return errorx.ErrServerBusy
	}

	switch req.VerificationType {
	case verifyByPassword:
		if req.OldPassword == "" {
			return errorx.New(errorx.CodeInvalidParam, "旧密码不能为空")
		}
		if !u.verifier.Verify(req.OldPassword, user.PasswordHash) {
			return errorx.New(errorx.CodeInvalidPassword, "旧密码不正确")
		}
	case verifyByQuestion:
		if strings.TrimSpace(req.Answer) == "" {
			return errorx.New(errorx.CodeInvalidParam, "答案不能为空")
		}
		if !u.answerMatches(user, req.Answer) {
			return errWrongAnswer
		}
	default:
		return errorx.New(errorx.CodeInvalidParam, "无效的验证类型")
	}

	if err := u.setPassword(user.ID, req.NewPassword); err != nil {
		return err
	}
	zap.L().Info("password changed", zap.Uint("user", user.ID), zap.String("verification", req.VerificationType))
	return nil
}

var errWrongAnswer = errorx.New(errorx.CodeInvalidPassword, "安全问题答案错误")

func (u *userInfoService) answerMatches(user *model.User, answer string) bool {
	if user.SecurityAnswerHash == "" {
		return false
	}
	return u.verifier.Verify(strings.TrimSpace(answer), user.SecurityAnswerHash)
}

func (u *userInfoService) setPassword(userID uint, password string) error {
	hash, err := u.verifier.Hash(password)
	if err != nil {
		zap.L().Error("hash password error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	rows, err := u.repos.User.UpdatePassword(userID, hash)
	if err != nil {
		zap.L().Error("update password error", zap.Uint("user", userID), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if rows == 0 {
		return errorx.New(errorx.CodeUserNotExist, "用户不存在")
	}
	return nil
}

func (u *userInfoService) loginRespond(user *model.User) (*respond.LoginRespond, error) {
	token, err := jwt.GenerateAccessToken(user.ID)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.LoginRespond{
		UserID:      user.ID,
		Handle:      user.Handle,
		Nickname:    user.DisplayName(),
		AccessToken: token,
	}, nil
}
