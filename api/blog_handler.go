package api

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/connectingdots/blog-backend/database"
	"github.com/connectingdots/blog-backend/errs"
	"github.com/connectingdots/blog-backend/media"
	"github.com/connectingdots/blog-backend/models"
	"github.com/connectingdots/blog-backend/slug"
)

const (
	defaultListLimit    = 8
	defaultMyPostsLimit = 50
	maxImageMemory      = 32 << 20
)

// blogStore is the slice of the blog repository the handler needs.
// *database.BlogRepo satisfies it; tests substitute an in-memory fake.
type blogStore interface {
	FindAll(filter database.BlogFilter) ([]models.Blog, error)
	FindByID(id uuid.UUID) (*models.Blog, error)
	FindBySlug(s string) (*models.Blog, error)
	SlugTaken(candidate string, excludeID *uuid.UUID) (bool, error)
	Add(blog *models.Blog) error
	Update(blog *models.Blog) error
	Delete(id uuid.UUID) error
}

type blogHandler struct {
	responder Responder
	logger    zerolog.Logger
	blogs     blogStore
	allocator slug.Allocator
	media     media.Store
}

func newBlogHandler(blogs blogStore, allocator slug.Allocator, mediaStore media.Store, isProduction bool) blogHandler {
	logger := log.With().Str("handlerName", "blogHandler").Logger()
	return blogHandler{
		responder: NewResponder(logger, isProduction),
		logger:    logger,
		blogs:     blogs,
		allocator: allocator,
		media:     mediaStore,
	}
}

// listBlogs is the public reader feed. It fetches one row beyond the
// requested page to tell the client whether more remain.
func (h blogHandler) listBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := filterFromQuery(r, defaultListLimit)
		requested := filter.Limit
		filter.Limit = requested + 1

		blogs, err := h.blogs.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blogs", err))
			return
		}

		hasMore := len(blogs) > requested
		if hasMore {
			blogs = blogs[:requested]
		}

		h.responder.WriteJSON(w, map[string]any{
			"blogs":   blogs,
			"hasMore": hasMore,
		})
	}
}

func (h blogHandler) getBlogBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blog, err := h.blogs.FindBySlug(chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog", err))
			return
		}
		if blog == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog not found"))
			return
		}

		h.responder.WriteJSON(w, blog)
	}
}

func (h blogHandler) getBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, apiErr := parseBlogID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		blog, err := h.blogs.FindByID(blogID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog", err))
			return
		}
		if blog == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog not found"))
			return
		}

		h.responder.WriteJSON(w, blog)
	}
}

// myPosts lists the caller's own posts, matched on the author field.
// This is a listing convenience, not write-time ownership enforcement.
func (h blogHandler) myPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxGetClaims(r.Context())

		filter := filterFromQuery(r, defaultMyPostsLimit)
		filter.Author = claims.Username

		blogs, err := h.blogs.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blogs", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"blogs":  blogs,
			"total":  len(blogs),
			"author": claims.Username,
		})
	}
}

// createBlog allocates a unique slug from the supplied candidate or the
// title, uploads the optional image, and persists the post. If the
// allocator loses a race, the slug unique index reports the conflict.
func (h blogHandler) createBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parseBlogForm(r)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		defer form.close()

		var fieldErrors []string
		title := form.value("title")
		content := form.value("content")
		category := form.value("category")
		subcategory := form.value("subcategory")
		author := form.value("author")
		status := form.value("status")

		if title == "" {
			fieldErrors = append(fieldErrors, "title is required")
		}
		if content == "" {
			fieldErrors = append(fieldErrors, "content is required")
		}
		if category == "" {
			fieldErrors = append(fieldErrors, "category is required")
		}
		if !models.ValidSubcategory(subcategory) {
			fieldErrors = append(fieldErrors, "subcategory must be one of: Article, Tutorial, Interview Questions")
		}
		if author == "" {
			fieldErrors = append(fieldErrors, "author is required")
		}
		if status == "" {
			status = string(models.StatusNone)
		} else if !models.ValidStatus(status) {
			fieldErrors = append(fieldErrors, "status must be one of: None, Trending, Featured, Editor's Pick, Recommended")
		}

		baseSlug := slug.Generate(form.value("slug"))
		if baseSlug == "" {
			baseSlug = slug.Generate(title)
		}
		if baseSlug == "" {
			fieldErrors = append(fieldErrors, "title/slug must contain at least one word character")
		}
		if len(fieldErrors) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(fieldErrors...))
			return
		}

		blogSlug, err := h.allocator.Allocate(baseSlug, nil)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("allocate slug for", "blog", err))
			return
		}

		blog := models.Blog{
			Title:       title,
			Slug:        blogSlug,
			Content:     content,
			Category:    category,
			Subcategory: models.Subcategory(subcategory),
			Author:      author,
			Status:      models.Status(status),
		}

		if form.file != nil {
			asset, err := h.media.Upload(r.Context(), form.header.Filename, form.header.Header.Get("Content-Type"), form.file)
			if err != nil {
				h.responder.WriteError(w, errs.NewInternalError("error uploading image"))
				return
			}
			blog.Image = &asset.URL
			blog.ImagePublicID = &asset.PublicID
		}

		if err := h.blogs.Add(&blog); err != nil {
			h.responder.WriteError(w, translateBlogWriteError(err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]any{
			"message": "Blog created successfully",
			"blog":    blog,
		})
	}
}

// updateBlog applies a partial patch. The slug is re-derived only when
// the patch carries a title or slug candidate whose normalized form
// differs from the current slug; the post's own id is excluded so it is
// never blocked by the slug it already holds.
func (h blogHandler) updateBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, apiErr := parseBlogID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		existing, err := h.blogs.FindByID(blogID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog not found"))
			return
		}

		form, err := parseBlogForm(r)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		defer form.close()

		var fieldErrors []string
		if v, ok := form.lookup("subcategory"); ok && !models.ValidSubcategory(v) {
			fieldErrors = append(fieldErrors, "subcategory must be one of: Article, Tutorial, Interview Questions")
		}
		if v, ok := form.lookup("status"); ok && !models.ValidStatus(v) {
			fieldErrors = append(fieldErrors, "status must be one of: None, Trending, Featured, Editor's Pick, Recommended")
		}
		if len(fieldErrors) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(fieldErrors...))
			return
		}

		title, titlePresent := form.lookup("title")
		slugCandidate, slugPresent := form.lookup("slug")

		if titlePresent || slugPresent {
			var baseSlug string
			if slugPresent {
				baseSlug = slug.Generate(slugCandidate)
			} else {
				baseSlug = slug.Generate(title)
			}

			if baseSlug != "" && baseSlug != existing.Slug {
				uniqueSlug, err := h.allocator.Allocate(baseSlug, &existing.ID)
				if err != nil {
					h.responder.WriteError(w, wrapDatabaseError("allocate slug for", "blog", err))
					return
				}
				existing.Slug = uniqueSlug
			}
		}

		if titlePresent && title != "" {
			existing.Title = title
		}
		if v, ok := form.lookup("content"); ok && v != "" {
			existing.Content = v
		}
		if v, ok := form.lookup("category"); ok && v != "" {
			existing.Category = v
		}
		if v, ok := form.lookup("subcategory"); ok {
			existing.Subcategory = models.Subcategory(v)
		}
		if v, ok := form.lookup("author"); ok && v != "" {
			existing.Author = v
		}
		if v, ok := form.lookup("status"); ok {
			existing.Status = models.Status(v)
		}

		if form.file != nil {
			// Best-effort cleanup of the replaced asset; the record
			// mutation is the primary contract.
			if existing.ImagePublicID != nil {
				if err := h.media.Destroy(r.Context(), *existing.ImagePublicID); err != nil {
					h.logger.Error().Err(err).Str("publicId", *existing.ImagePublicID).Msg("Failed to delete replaced image")
				}
			}

			asset, err := h.media.Upload(r.Context(), form.header.Filename, form.header.Header.Get("Content-Type"), form.file)
			if err != nil {
				h.responder.WriteError(w, errs.NewInternalError("error uploading image"))
				return
			}
			existing.Image = &asset.URL
			existing.ImagePublicID = &asset.PublicID
		}

		if err := h.blogs.Update(existing); err != nil {
			h.responder.WriteError(w, translateBlogWriteError(err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"message": "Blog updated successfully",
			"blog":    existing,
		})
	}
}

// deleteBlog destroys the external image asset best-effort, then deletes
// the record.
func (h blogHandler) deleteBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, apiErr := parseBlogID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		blog, err := h.blogs.FindByID(blogID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog", err))
			return
		}
		if blog == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog not found"))
			return
		}

		if blog.ImagePublicID != nil {
			if err := h.media.Destroy(r.Context(), *blog.ImagePublicID); err != nil {
				h.logger.Error().Err(err).Str("publicId", *blog.ImagePublicID).Msg("Failed to delete blog image")
			}
		}

		if err := h.blogs.Delete(blogID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "blog", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"message": "Blog and associated image deleted successfully",
		})
	}
}

func parseBlogID(r *http.Request) (uuid.UUID, *errs.ApiErr) {
	idStr := chi.URLParam(r, "blogID")
	if idStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing blogID")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid blog ID format")
	}
	return id, nil
}

func filterFromQuery(r *http.Request, defaultLimit int) database.BlogFilter {
	q := r.URL.Query()
	filter := database.BlogFilter{
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Status:      q.Get("status"),
		Limit:       defaultLimit,
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if skip, err := strconv.Atoi(q.Get("skip")); err == nil && skip > 0 {
		filter.Skip = skip
	}
	return filter
}

// translateBlogWriteError turns a duplicate-slug write failure into the
// Conflict the caller can act on; everything else is a database error.
func translateBlogWriteError(err error) error {
	if err == nil {
		return nil
	}
	errStr := err.Error()
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "duplicated key") {
		return errs.NewSlugConflictError(err)
	}
	return wrapDatabaseError("write", "blog", err)
}

// blogForm presents JSON bodies and multipart forms uniformly: lookup
// reports whether a field was part of the request at all, which the
// partial-update path needs.
type blogForm struct {
	fields map[string]string
	file   multipart.File
	header *multipart.FileHeader
}

func parseBlogForm(r *http.Request) (*blogForm, error) {
	form := &blogForm{fields: make(map[string]string)}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageMemory); err != nil {
			return nil, err
		}
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				form.fields[key] = values[0]
			}
		}

		file, header, err := r.FormFile("image")
		switch err {
		case nil:
			form.file = file
			form.header = header
		case http.ErrMissingFile:
			// image is optional
		default:
			return nil, err
		}
		return form, nil
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	for key, raw := range body {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			form.fields[key] = s
		}
	}
	return form, nil
}

func (f *blogForm) value(key string) string {
	return f.fields[key]
}

func (f *blogForm) lookup(key string) (string, bool) {
	v, ok := f.fields[key]
	return v, ok
}

func (f *blogForm) close() {
	if f.file != nil {
		f.file.Close()
	}
}
