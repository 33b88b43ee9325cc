package domain

import "time"

type File struct {
	FileID      string    `json:"id" dynamodbav:"file_id"`
	Key         string    `json:"key" dynamodbav:"s3_key"`
	URL         string    `json:"url" dynamodbav:"url"`
	Filename    string    `json:"filename" dynamodbav:"filename"`
	ContentType string    `json:"content_type" dynamodbav:"content_type"`
	Size        int64     `json:"size" dynamodbav:"size"`
	Kind        string    `json:"kind" dynamodbav:"kind"` // "website" | "product" | "user" | "general"
	UploadedBy  string    `json:"uploaded_by" dynamodbav:"uploaded_by_user_id"`
	Enable      bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
}
