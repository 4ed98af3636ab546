package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/naveenspark/shopfront/pkg/domain"
)

// ListProducts returns the public catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getCached(ctx, "/products", &products); err != nil {
		return nil, fmt.Errorf("client.ListProducts: %w", err)
	}
	return products, nil
}

// --- Blog ---

// ListPosts returns blog posts.
func (c *Client) ListPosts(ctx context.Context) ([]domain.BlogPost, error) {
	var posts []domain.BlogPost
	if err := c.getCached(ctx, "/blog/posts", &posts); err != nil {
		return nil, fmt.Errorf("client.ListPosts: %w", err)
	}
	return posts, nil
}

// GetPost fetches a single post by ID.
func (c *Client) GetPost(ctx context.Context, id string) (*domain.BlogPost, error) {
	var post domain.BlogPost
	if err := c.getCached(ctx, "/blog/posts/"+url.PathEscape(id), &post); err != nil {
		return nil, fmt.Errorf("client.GetPost: %w", err)
	}
	return &post, nil
}

// CreatePost writes a new post as the signed-in user.
func (c *Client) CreatePost(ctx context.Context, in domain.BlogPostInput) (*domain.BlogPost, error) {
	var post domain.BlogPost
	if err := c.post(ctx, "/blog/posts", in, &post); err != nil {
		return nil, fmt.Errorf("client.CreatePost: %w", err)
	}
	return &post, nil
}

// UpdatePost edits a post.
func (c *Client) UpdatePost(ctx context.Context, id string, in domain.BlogPostInput) error {
	if err := c.doRequest(ctx, http.MethodPut, "/blog/posts/"+url.PathEscape(id), in, nil); err != nil {
		return fmt.Errorf("client.UpdatePost: %w", err)
	}
	return nil
}

// DeletePost deletes a post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/blog/posts/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeletePost: %w", err)
	}
	return nil
}

// --- Orders ---

// CreateOrder places an order. idempotencyKey lets the server drop a
// duplicate submit; an empty key gets a fresh one.
func (c *Client) CreateOrder(ctx context.Context, in domain.OrderRequest, idempotencyKey string) (*domain.Order, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	var order domain.Order
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/orders",
		body:   in,
		out:    &order,
		header: http.Header{"Idempotency-Key": []string{idempotencyKey}},
	})
	if err != nil {
		return nil, fmt.Errorf("client.CreateOrder: %w", err)
	}
	return &order, nil
}
