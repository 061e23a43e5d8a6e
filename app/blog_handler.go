package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mizutamauma/bloghub/internal/blogservice"
	"github.com/mizutamauma/bloghub/internal/common"
	"github.com/mizutamauma/bloghub/internal/feed"
)

func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	req := &blogservice.FeedRequest{
		Title:    app.readQueryString(r, "title", ""),
		Category: app.readQueryString(r, "category", ""),
		Sort:     feed.SortMode(app.readStringParam(r, "sort")),
		Cursor:   app.readQueryString(r, "next_cursor", ""),
	}

	blogs, err := app.blogService.ListBlogs(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrMalformedCursor):
			app.badRequestErrorResponse(w, r, err)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, blogs, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listUserBlogsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	title := app.readQueryString(r, "title", "")
	category := app.readQueryString(r, "category", "")
	cursor := app.readQueryString(r, "next_cursor", "")

	blogs, err := app.blogService.ListUserBlogs(r.Context(), user.ID, title, category, cursor)
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrMalformedCursor):
			app.badRequestErrorResponse(w, r, err)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, blogs, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getBlogContentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.GetBlogContent(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type createBlogRequest struct {
	Title    string `json:"title"`
	Banner   string `json:"banner"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input createBlogRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	blog, err := app.blogService.CreateBlog(r.Context(), &blogservice.CreateBlogRequest{
		Title:    input.Title,
		Banner:   input.Banner,
		Category: input.Category,
		Content:  input.Content,
		UserID:   user.ID,
	})
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, blogservice.ErrUserForeignKey):
			app.unAuthorizedErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type updateBlogRequest struct {
	ID       int    `json:"blog_id"`
	Title    string `json:"title"`
	Banner   string `json:"banner"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input updateBlogRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	blog, err := app.blogService.UpdateBlog(r.Context(), &blogservice.UpdateBlogRequest{
		ID:       input.ID,
		Title:    input.Title,
		Banner:   input.Banner,
		Category: input.Category,
		Content:  input.Content,
		UserID:   user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	err = app.blogService.DeleteBlog(r.Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) likeBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	err = app.blogService.LikeBlog(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrAlreadyLiked):
			app.badRequestErrorResponse(w, r, err)
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog liked"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) unlikeBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	err = app.blogService.UnlikeBlog(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrNotLiked):
			app.badRequestErrorResponse(w, r, err)
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog unliked"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

const maxBannerBytes = 5 << 20

// uploadBannerHandler accepts a multipart banner image, stores it in the blob
// store, and returns the public URL the client should set on the blog.
func (app *application) uploadBannerHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxBannerBytes)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("banner")
	if err != nil {
		app.badRequestErrorResponse(w, r, errors.New("banner file must be provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBannerBytes))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		app.failedValidationErrorResponse(w, r, map[string]string{"banner": "must be a JPEG, PNG, or WebP image"})
		return
	}

	user := app.getUserContext(r)
	key := fmt.Sprintf("%d/%d-%s", user.ID, time.Now().UnixNano(), header.Filename)

	url, err := app.blobStore.Upload(r.Context(), key, data, contentType)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"banner": url}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
