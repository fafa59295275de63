package service_test

import (
	"context"
	"strings"
	"testing"

	"kumarket/marketplace-api/internal/model"
	"kumarket/marketplace-api/internal/service"
	"kumarket/marketplace-api/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	seller := testutils.CreateTestUser(e.db)

	id, err := e.listings.CreatePost(ctx, postInput(
		image("front.png", 2048),
		image("back.JPG", 4096),
	), identityOf(seller))
	require.NoError(t, err)

	var p model.Post
	require.NoError(t, e.db.Preload("Images").First(&p, id).Error)
	assert.Equal(t, "Desk lamp", p.Title)
	assert.Equal(t, int64(8000), p.Price)
	assert.Equal(t, model.StatusSale, p.Status)
	assert.Equal(t, seller.ID, p.AuthorID)
	assert.Zero(t, p.Views)

	require.Len(t, p.Images, 2)
	assert.Len(t, e.files(t), 2)

	detail, err := e.listings.GetPost(ctx, id)
	require.NoError(t, err)
	require.Len(t, detail.Images, 2)
	assert.True(t, strings.HasSuffix(detail.Images[0].FilePath, "_front.png"))
	assert.True(t, strings.HasSuffix(detail.Images[1].FilePath, "_back.JPG"))
	assert.Equal(t, int64(2048), detail.Images[0].FileSize)
	assert.Equal(t, seller.Name, detail.Author)
	assert.Equal(t, seller.Email, detail.AuthorEmail)
}

func TestCreatePostWithoutImages(t *testing.T) {
	e := newEnv(t)
	seller := testutils.CreateTestUser(e.db)

	id, err := e.listings.CreatePost(context.Background(), postInput(), identityOf(seller))
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Empty(t, e.files(t))
}

func TestCreatePostRejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := identityOf(testutils.CreateTestUser(e.db))

	tests := []struct {
		name    string
		in      service.CreatePostInput
		message string
	}{
		{
			name: "too many images",
			in: postInput(
				image("1.png", 100), image("2.png", 100), image("3.png", 100),
				image("4.png", 100), image("5.png", 100), image("6.png", 100),
			),
			message: "you can upload at most 5 images",
		},
		{
			name:    "image over 10MB",
			in:      postInput(image("small.png", 100), image("huge.png", 11<<20)),
			message: "each image must be 10MB or less",
		},
		{
			name: "over 40MB combined",
			in: postInput(
				image("1.png", 9<<20), image("2.png", 9<<20), image("3.png", 9<<20),
				image("4.png", 9<<20), image("5.png", 9<<20),
			),
			message: "all images together must be 40MB or less",
		},
		{
			name:    "bad extension",
			in:      postInput(image("ok.png", 100), image("script.svg", 100)),
			message: "file type not allowed",
		},
		{
			name: "missing title",
			in: func() service.CreatePostInput {
				in := postInput()
				in.Title = ""
				return in
			}(),
			message: "please fill in all required fields",
		},
		{
			name: "negative price",
			in: func() service.CreatePostInput {
				in := postInput()
				in.Price = "-500"
				return in
			}(),
			message: "price must be a whole number of 0 or more",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.listings.CreatePost(ctx, tt.in, seller)

			var ve *service.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.message, ve.Message)

			assert.Empty(t, e.files(t), "no file from the request may remain")
		})
	}

	var count int64
	e.db.Model(&model.Post{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreatePostEmptyParts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := identityOf(testutils.CreateTestUser(e.db))

	var none service.ImageUpload

	_, err := e.listings.CreatePost(ctx, postInput(
		image("1.png", 100), image("2.png", 100), image("3.png", 100),
		image("4.png", 100), image("5.png", 100), none,
	), seller)

	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "you can upload at most 5 images", ve.Message)
	assert.Empty(t, e.files(t))

	id, err := e.listings.CreatePost(ctx, postInput(image("a.png", 100), none, image("b.png", 100)), seller)
	require.NoError(t, err)
	assert.Len(t, e.files(t), 2)

	var images []model.Image
	require.NoError(t, e.db.Where("post_id = ?", id).Order("upload_order").Find(&images).Error)
	require.Len(t, images, 2)
	assert.Equal(t, 0, images[0].UploadOrder)
	assert.Equal(t, 2, images[1].UploadOrder)
}

func TestCreatePostRequiresLogin(t *testing.T) {
	e := newEnv(t)

	_, err := e.listings.CreatePost(context.Background(), postInput(image("a.png", 100)), nil)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
	assert.Empty(t, e.files(t))
}

func TestCreatePostRemovesFilesWhenInsertFails(t *testing.T) {
	e := newEnv(t)

	// No such user, so the foreign key rejects the post row
	ghost := &service.Identity{UserID: 4242}

	_, err := e.listings.CreatePost(context.Background(), postInput(image("a.png", 100), image("b.png", 100)), ghost)
	require.Error(t, err)
	assert.Empty(t, e.files(t))
}

func TestGetPostCountsViews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p := testutils.CreateTestPost(e.db, testutils.CreateTestUser(e.db))

	const n = 7
	var last *service.PostDetail
	for range n {
		d, err := e.listings.GetPost(ctx, p.ID)
		require.NoError(t, err)
		last = d
	}

	assert.Equal(t, int64(n), last.Views)

	var stored model.Post
	require.NoError(t, e.db.First(&stored, p.ID).Error)
	assert.Equal(t, int64(n), stored.Views)

	_, err := e.listings.GetPost(ctx, p.ID+100)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestListPosts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	a := testutils.CreateTestUser(e.db, testutils.WithName("Alice"))
	b := testutils.CreateTestUser(e.db, testutils.WithName("Bob"))

	bike := testutils.CreateTestPost(e.db, a, testutils.WithTitle("Road bike"), testutils.WithContent("Barely ridden"), testutils.WithCategory("sports"))
	book := testutils.CreateTestPost(e.db, b, testutils.WithTitle("Physics book"), testutils.WithContent("Comes with a bike lock"), testutils.WithCategory("books"))
	lamp := testutils.CreateTestPost(e.db, b, testutils.WithTitle("Lamp"), testutils.WithContent("100% working"), testutils.WithCategory("furniture"),
		testutils.WithImages("/static/uploads/a.png", "/static/uploads/b.png"))

	ids := func(posts []service.PostSummary) []uint {
		out := make([]uint, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}
		return out
	}

	t.Run("newest first", func(t *testing.T) {
		posts, err := e.listings.ListPosts(ctx, "", "")
		require.NoError(t, err)
		assert.Equal(t, []uint{lamp.ID, book.ID, bike.ID}, ids(posts))

		all, err := e.listings.ListPosts(ctx, service.CategoryAll, "")
		require.NoError(t, err)
		assert.Equal(t, ids(posts), ids(all))
	})

	t.Run("category", func(t *testing.T) {
		posts, err := e.listings.ListPosts(ctx, "books", "")
		require.NoError(t, err)
		assert.Equal(t, []uint{book.ID}, ids(posts))
		assert.Equal(t, "Bob", posts[0].Author)
		assert.Equal(t, b.Email, posts[0].AuthorEmail)
	})

	t.Run("search matches title or content in any category", func(t *testing.T) {
		posts, err := e.listings.ListPosts(ctx, "", "bike")
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{bike.ID, book.ID}, ids(posts))
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		posts, err := e.listings.ListPosts(ctx, "", "100%")
		require.NoError(t, err)
		assert.Equal(t, []uint{lamp.ID}, ids(posts))

		posts, err = e.listings.ListPosts(ctx, "", "%")
		require.NoError(t, err)
		assert.Equal(t, []uint{lamp.ID}, ids(posts))
	})

	t.Run("images in upload order", func(t *testing.T) {
		posts, err := e.listings.ListPosts(ctx, "furniture", "")
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, []string{"/static/uploads/a.png", "/static/uploads/b.png"}, posts[0].Images)

		posts, err = e.listings.ListPosts(ctx, "sports", "")
		require.NoError(t, err)
		assert.NotNil(t, posts[0].Images)
		assert.Empty(t, posts[0].Images)
	})
}

func TestUpdatePost(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := testutils.CreateTestUser(e.db)
	other := testutils.CreateTestUser(e.db)
	admin := testutils.CreateTestUser(e.db, testutils.WithAdmin())
	p := testutils.CreateTestPost(e.db, owner)

	status := func() string {
		var s model.Post
		require.NoError(t, e.db.First(&s, p.ID).Error)
		return s.Status
	}

	assert.ErrorIs(t, e.listings.UpdatePost(ctx, p.ID, "sold", nil), service.ErrUnauthenticated)
	assert.ErrorIs(t, e.listings.UpdatePost(ctx, p.ID, "sold", identityOf(other)), service.ErrForbidden)
	assert.ErrorIs(t, e.listings.UpdatePost(ctx, p.ID+1, "sold", identityOf(owner)), service.ErrNotFound)
	assert.Equal(t, model.StatusSale, status())

	require.NoError(t, e.listings.UpdatePost(ctx, p.ID, "reserved", identityOf(owner)))
	assert.Equal(t, "reserved", status())

	// Empty status keeps the current one
	require.NoError(t, e.listings.UpdatePost(ctx, p.ID, "", identityOf(owner)))
	assert.Equal(t, "reserved", status())

	require.NoError(t, e.listings.UpdatePost(ctx, p.ID, "sold", identityOf(admin)))
	assert.Equal(t, "sold", status())
}

func TestDeletePost(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := testutils.CreateTestUser(e.db)
	other := testutils.CreateTestUser(e.db)

	id, err := e.listings.CreatePost(ctx, postInput(image("a.png", 100), image("b.png", 100)), identityOf(owner))
	require.NoError(t, err)
	require.Len(t, e.files(t), 2)

	_, err = e.listings.DeletePost(ctx, id, identityOf(other))
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Len(t, e.files(t), 2)

	_, err = e.listings.DeletePost(ctx, id, nil)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	warnings, err := e.listings.DeletePost(ctx, id, identityOf(owner))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, e.files(t))

	var images int64
	e.db.Model(&model.Image{}).Where("post_id = ?", id).Count(&images)
	assert.Zero(t, images)

	_, err = e.listings.GetPost(ctx, id)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = e.listings.DeletePost(ctx, id, identityOf(owner))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAdminDeletesAnyPost(t *testing.T) {
	e := newEnv(t)

	owner := testutils.CreateTestUser(e.db)
	admin := testutils.CreateTestUser(e.db, testutils.WithAdmin())

	// The files behind these rows never existed, which is not an error
	p := testutils.CreateTestPost(e.db, owner, testutils.WithImages("/static/uploads/missing.png"))

	warnings, err := e.listings.DeletePost(context.Background(), p.ID, identityOf(admin))
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
