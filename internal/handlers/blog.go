package handlers

import (
	"errors"
	"net/http"

	"github.com/EjMackSPD/careshare-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlogHandler struct {
	db *pgxpool.Pool
}

func NewBlogHandler(db *pgxpool.Pool) *BlogHandler {
	return &BlogHandler{db: db}
}

type BlogPostRequest struct {
	Title     string `json:"title" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	Body      string `json:"body" binding:"required"`
	Published bool   `json:"published"`
}

// ListPosts returns published posts. Public, no authentication.
func (h *BlogHandler) ListPosts(c *gin.Context) {
	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, title, slug, body, published, author_id, created_at, updated_at
		FROM blog_posts
		WHERE published = TRUE
		ORDER BY created_at DESC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query posts"})
		return
	}
	defer rows.Close()

	posts := []models.BlogPost{}
	for rows.Next() {
		var p models.BlogPost
		err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse post data"})
			return
		}
		posts = append(posts, p)
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"count": len(posts),
	})
}

// GetPost returns a single published post by slug. Public.
func (h *BlogHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	var p models.BlogPost
	err := h.db.QueryRow(c.Request.Context(), `
		SELECT id, title, slug, body, published, author_id, created_at, updated_at
		FROM blog_posts
		WHERE slug = $1 AND published = TRUE
	`, slug).Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query post"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// ListAllPosts returns every post including drafts. Admin only.
func (h *BlogHandler) ListAllPosts(c *gin.Context) {
	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, title, slug, body, published, author_id, created_at, updated_at
		FROM blog_posts
		ORDER BY created_at DESC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query posts"})
		return
	}
	defer rows.Close()

	posts := []models.BlogPost{}
	for rows.Next() {
		var p models.BlogPost
		err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse post data"})
			return
		}
		posts = append(posts, p)
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"count": len(posts),
	})
}

// CreatePost creates a blog post. Admin only.
func (h *BlogHandler) CreatePost(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var p models.BlogPost
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO blog_posts (title, slug, body, published, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, slug, body, published, author_id, created_at, updated_at
	`, req.Title, req.Slug, req.Body, req.Published, identity.ID).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

// UpdatePost updates a blog post. Admin only.
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var p models.BlogPost
	err = h.db.QueryRow(c.Request.Context(), `
		UPDATE blog_posts
		SET title = $1, slug = $2, body = $3, published = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id, title, slug, body, published, author_id, created_at, updated_at
	`, req.Title, req.Slug, req.Body, req.Published, postID).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeletePost removes a blog post. Admin only.
func (h *BlogHandler) DeletePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	result, err := h.db.Exec(c.Request.Context(), `DELETE FROM blog_posts WHERE id = $1`, postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if result.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": postID})
}
