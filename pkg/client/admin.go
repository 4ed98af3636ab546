package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/naveenspark/shopfront/pkg/domain"
)

// DashboardStats returns the admin overview.
func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.get(ctx, "/admin/dashboard/stats", &stats); err != nil {
		return nil, fmt.Errorf("client.DashboardStats: %w", err)
	}
	return &stats, nil
}

// --- Products ---

// AdminListProducts returns every product, including hidden ones.
func (c *Client) AdminListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/admin/products", &products); err != nil {
		return nil, fmt.Errorf("client.AdminListProducts: %w", err)
	}
	return products, nil
}

// CreateProduct adds a product.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var p domain.Product
	if err := c.post(ctx, "/admin/products", in, &p); err != nil {
		return nil, fmt.Errorf("client.CreateProduct: %w", err)
	}
	return &p, nil
}

// UpdateProduct edits a product.
func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) error {
	if err := c.doRequest(ctx, http.MethodPut, "/admin/products/"+url.PathEscape(id), in, nil); err != nil {
		return fmt.Errorf("client.UpdateProduct: %w", err)
	}
	return nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/admin/products/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteProduct: %w", err)
	}
	return nil
}

// --- Files ---

// ListFiles returns uploaded files.
func (c *Client) ListFiles(ctx context.Context) ([]domain.FileUpload, error) {
	var files []domain.FileUpload
	if err := c.get(ctx, "/admin/files", &files); err != nil {
		return nil, fmt.Errorf("client.ListFiles: %w", err)
	}
	return files, nil
}

// UploadFile sends r as a multipart "file" field named fileName.
func (c *Client) UploadFile(ctx context.Context, fileName string, r io.Reader) (*domain.FileUpload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("client.UploadFile: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("client.UploadFile: read %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("client.UploadFile: %w", err)
	}

	var uploaded domain.FileUpload
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/admin/files/upload",
		out:         &uploaded,
		rawBody:     &buf,
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return nil, fmt.Errorf("client.UploadFile: %w", err)
	}
	return &uploaded, nil
}

// DeleteFile removes an uploaded file.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/admin/files/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteFile: %w", err)
	}
	return nil
}

// --- Logs ---

// ChatLogs returns the chat log.
func (c *Client) ChatLogs(ctx context.Context) ([]domain.ChatLog, error) {
	var logs []domain.ChatLog
	if err := c.get(ctx, "/admin/logs/chat", &logs); err != nil {
		return nil, fmt.Errorf("client.ChatLogs: %w", err)
	}
	return logs, nil
}

// DownloadLogs returns the file download log.
func (c *Client) DownloadLogs(ctx context.Context) ([]domain.DownloadLog, error) {
	var logs []domain.DownloadLog
	if err := c.get(ctx, "/admin/logs/download", &logs); err != nil {
		return nil, fmt.Errorf("client.DownloadLogs: %w", err)
	}
	return logs, nil
}
