package model

import (
	"time"

	"gorm.io/datatypes"
)

// Checkin 每日打卡记录
// (user_id, checkin_date) 唯一，同一用户每天最多一条，创建后不再修改

type Checkin struct {
	ID          uint           `gorm:"primaryKey"`
	UserID      uint           `gorm:"not null;uniqueIndex:unique_user_date,priority:1;comment:用户ID"`
	CheckinDate datatypes.Date `gorm:"not null;uniqueIndex:unique_user_date,priority:2;comment:打卡日期"`
	CreatedAt   time.Time      `gorm:"comment:创建时间"`
}

func (Checkin) TableName() string { return "checkins" }
