package httpapi

import (
	"time"

	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/dmitrijs2005/supportdesk/internal/server/services"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountJSON struct {
	ID        string      `json:"_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func toAccountJSON(a *models.Account) accountJSON {
	return accountJSON{
		ID:        a.ID,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type authJSON struct {
	User  accountJSON `json:"user"`
	Token string      `json:"token"`
}

func toAuthJSON(r *services.AuthResult) authJSON {
	return authJSON{User: toAccountJSON(r.Account), Token: r.Token}
}

type documentJSON struct {
	ID           string          `json:"_id"`
	Filename     string          `json:"filename"`
	OriginalName string          `json:"originalName"`
	FileType     models.FileType `json:"fileType"`
	FileSize     int64           `json:"fileSize"`
	Content      string          `json:"content,omitempty"`
	ChunkCount   int             `json:"chunkCount"`
	UploadedBy   string          `json:"uploadedBy"`
	UploadedAt   time.Time       `json:"uploadedAt"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DownloadURL  string          `json:"downloadUrl,omitempty"`
}

func toDocumentJSON(d *models.Document) documentJSON {
	return documentJSON{
		ID:           d.ID,
		Filename:     d.Filename,
		OriginalName: d.OriginalName,
		FileType:     d.FileType,
		FileSize:     d.FileSize,
		Content:      d.Content,
		ChunkCount:   d.ChunkCount,
		UploadedBy:   d.UploadedBy,
		UploadedAt:   d.UploadedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
