package model

import (
	"time"
)

// User 用户模型
// 手机号与微信OpenID均可为空，非空时全局唯一（指针 + 唯一索引）
// 任一登录渠道首次登录成功时创建
// 删除用户时由 repository 在同一事务里删除其打卡与日志

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Phone        *string   `gorm:"type:varchar(20);uniqueIndex;comment:手机号"`
	WechatOpenID *string   `gorm:"column:wechat_openid;type:varchar(100);uniqueIndex;comment:微信OpenID"`
	Nickname     string    `gorm:"type:varchar(50);comment:昵称"`
	Gender       string    `gorm:"type:varchar(10);comment:性别(male/female/other)"`
	Signature    string    `gorm:"type:varchar(200);comment:个性签名"`
	Avatar       string    `gorm:"type:varchar(200);comment:头像相对路径"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`

	Checkins []Checkin `gorm:"constraint:OnDelete:CASCADE"`
	Logs     []Log     `gorm:"constraint:OnDelete:CASCADE"`
}

func (User) TableName() string { return "users" }

// 性别取值
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)
