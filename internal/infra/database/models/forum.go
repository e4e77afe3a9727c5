package models

import (
	"time"
)

type ForumThread struct {
	ID         string       `json:"id" gorm:"primaryKey;type:text"`
	Title      string       `json:"title" gorm:"type:text;not null"`
	AuthorName string       `json:"author_name" gorm:"type:text;not null"`
	Content    string       `json:"content" gorm:"type:text;not null"`
	AISummary  string       `json:"ai_summary" gorm:"type:text"`
	Language   string       `json:"language" gorm:"type:text"`
	Replies    []ForumReply `json:"replies" gorm:"foreignKey:ThreadID;references:ID"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null;index"`
}

type ForumReply struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text"`
	ThreadID   string    `json:"thread_id" gorm:"type:text;not null;index"`
	AuthorName string    `json:"author_name" gorm:"type:text;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
}

type SiteContent struct {
	Key       string `json:"key" gorm:"primaryKey;type:text"`
	ENContent string `json:"en_content" gorm:"type:text"`
	FRContent string `json:"fr_content" gorm:"type:text"`
}
