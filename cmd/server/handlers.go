package main

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/docvault/docvault/internal/auth"
	"github.com/docvault/docvault/internal/documents"
	"github.com/docvault/docvault/pkg/types"
)

func handleTokenExchange(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.TokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.APIResponse{
				Success: false,
				Error:   "Invalid request format",
			})
			return
		}

		token, err := authService.ExchangeToken(req.AdminKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, types.APIResponse{
				Success: false,
				Error:   "Invalid credentials",
			})
			return
		}

		c.JSON(http.StatusOK, types.APIResponse{
			Success: true,
			Data:    token,
		})
	}
}

func handleUpload(documentService *documents.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, types.APIResponse{
				Success: false,
				Error:   "Missing file",
			})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, types.APIResponse{
				Success: false,
				Error:   "Unreadable file",
			})
			return
		}
		defer file.Close()

		req := &documents.UploadRequest{
			FileName:   fileHeader.Filename,
			Theme:      c.PostForm("theme"),
			Department: c.PostForm("department"),
			Period:     c.PostForm("period"),
			Content:    file,
		}
		// The original web form posted the department field as "dept"
		if req.Department == "" {
			req.Department = c.PostForm("dept")
		}

		doc, err := documentService.Submit(c.Request.Context(), req)
		if err != nil {
			respondError(c, "upload", err)
			return
		}

		c.JSON(http.StatusCreated, types.APIResponse{
			Success: true,
			Message: "File uploaded successfully",
			Data:    doc,
		})
	}
}

func handleList(documentService *documents.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
		if page < 1 {
			page = 1
		}
		if perPage < 1 || perPage > 200 {
			perPage = 50
		}

		filter := &types.DocumentFilter{
			Theme:      c.Query("theme"),
			Department: c.Query("department"),
			FileName:   c.Query("file_name"),
			DateFrom:   c.Query("date_from"),
			DateTo:     c.Query("date_to"),
			Limit:      perPage,
			Offset:     (page - 1) * perPage,
		}

		docs, total, err := documentService.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, "list", err)
			return
		}

		totalPages := int(total) / perPage
		if int(total)%perPage > 0 {
			totalPages++
		}

		c.JSON(http.StatusOK, types.PaginatedResponse{
			APIResponse: types.APIResponse{
				Success: true,
				Data:    docs,
			},
			Pagination: &types.PaginationInfo{
				Page:       page,
				PerPage:    perPage,
				Total:      total,
				TotalPages: totalPages,
			},
		})
	}
}

func handleView(documentService *documents.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		link, err := documentService.View(c.Request.Context(), id)
		if err != nil {
			respondError(c, "view", err)
			return
		}

		c.JSON(http.StatusOK, types.APIResponse{
			Success: true,
			Data:    gin.H{"view_link": link},
		})
	}
}

func handleDownload(documentService *documents.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		doc, content, err := documentService.Download(c.Request.Context(), id)
		if err != nil {
			respondError(c, "download", err)
			return
		}
		defer content.Close()

		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
		c.DataFromReader(http.StatusOK, doc.Size, "application/pdf", content, nil)
	}
}

func handleDelete(documentService *documents.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := documentService.Delete(c.Request.Context(), id); err != nil {
			respondError(c, "delete", err)
			return
		}

		c.JSON(http.StatusOK, types.APIResponse{
			Success: true,
			Message: "File deleted successfully",
		})
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.APIResponse{
			Success: false,
			Error:   "Invalid document id",
		})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps the service error taxonomy onto HTTP statuses. Validation
// detail is caller input and safe to echo; store failures are logged with full
// context and surfaced as a generic message.
func respondError(c *gin.Context, operation string, err error) {
	var validationErr *documents.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, types.APIResponse{
			Success: false,
			Error:   validationErr.Error(),
		})
	case errors.Is(err, documents.ErrNotFound):
		c.JSON(http.StatusNotFound, types.APIResponse{
			Success: false,
			Error:   "Document not found",
		})
	default:
		log.Error().Err(err).Str("operation", operation).Msg("document operation failed")
		c.JSON(http.StatusInternalServerError, types.APIResponse{
			Success: false,
			Error:   "Operation failed",
		})
	}
}
