package service

import "errors"

// 业务错误，错误信息直接返回给客户端
var (
	ErrPhoneRequired       = errors.New("手机号和验证码不能为空")
	ErrInvalidPhone        = errors.New("手机号格式不正确")
	ErrInvalidCode         = errors.New("验证码错误")
	ErrCodeRequired        = errors.New("缺少授权码")
	ErrWeChatNotConfigured = errors.New("微信登录未配置")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrAlreadyCheckedIn    = errors.New("今天已经打卡过了")
	ErrLogNotFound         = errors.New("日志不存在")
	ErrContentTooLong      = errors.New("配字不能超过500字")
	ErrEmptyLog            = errors.New("至少需要上传图片或配字")
	ErrUnsupportedFile     = errors.New("文件格式不支持")
	ErrNicknameTooLong     = errors.New("昵称不能超过50字")
	ErrSignatureTooLong    = errors.New("个性签名不能超过200字")
	ErrInvalidGender       = errors.New("性别取值无效")
)
