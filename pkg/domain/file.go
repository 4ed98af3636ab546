package domain

import (
	"fmt"
	"time"
)

// FileUpload is a file stored by an admin.
type FileUpload struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	FileSize   int64     `json:"fileSize"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DownloadLog records one file download.
type DownloadLog struct {
	ID           string    `json:"id"`
	FileID       string    `json:"fileId"`
	FileName     string    `json:"fileName"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	DownloadedAt time.Time `json:"downloadedAt"`
}

// ChatLog records one chat message.
type ChatLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// FormatFileSize renders a byte count using 1024-based units.
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d Bytes", n)
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}
