package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// 日志约束
const (
	MaxLogContentLength = 500 // 配字最大字符数
	MaxLogImages        = 9   // 最多图片数
)

// Log 日志记录：配字 + 有序图片列表
// Images 以JSON数组存储相对路径，顺序即展示顺序

type Log struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"not null;index;comment:用户ID"`
	Content   string         `gorm:"type:text;comment:配字内容"`
	Images    datatypes.JSON `gorm:"comment:图片路径列表"`
	CreatedAt time.Time      `gorm:"index;comment:创建时间"`
}

func (Log) TableName() string { return "logs" }

// SetImages 设置图片列表
func (l *Log) SetImages(images []string) error {
	if images == nil {
		images = []string{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return err
	}
	l.Images = datatypes.JSON(data)
	return nil
}

// GetImages 获取图片列表，空值或损坏数据返回空列表
func (l *Log) GetImages() []string {
	images := []string{}
	if len(l.Images) == 0 {
		return images
	}
	if err := json.Unmarshal(l.Images, &images); err != nil {
		return []string{}
	}
	return images
}
