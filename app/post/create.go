package post

import (
	"io"
	"mime/multipart"

	"kumarket/marketplace-api/app/respond"
	"kumarket/marketplace-api/internal"
	"kumarket/marketplace-api/internal/service"
	"kumarket/marketplace-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func PostCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id := middleware.Identity(c)
	if id == nil {
		respond.Error(c, service.ErrUnauthenticated)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			respond.Error(c, err)
			return
		}

		respond.Fail(c, "Invalid multipart form")
		zap.L().Debug("Failed to parse multipart form", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	in := service.CreatePostInput{
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
		Price:    c.PostForm("price"),
		Category: c.PostForm("category"),
	}

	for _, fh := range form.File["images"] {
		in.Images = append(in.Images, upload(fh))
	}

	// A file input left empty arrives as a plain value with no file name. It
	// still counts against the image limit.
	for range form.Value["images"] {
		in.Images = append(in.Images, service.ImageUpload{})
	}

	postID, err := d.Listings.CreatePost(c.Request.Context(), in, id)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, gin.H{"post_id": postID})
}

func upload(fh *multipart.FileHeader) service.ImageUpload {
	return service.ImageUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadSeekCloser, error) {
			return fh.Open()
		},
	}
}
