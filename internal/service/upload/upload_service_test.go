package upload

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentalhub/marketplace-backend/internal/common/errors"
	"github.com/rentalhub/marketplace-backend/pkg/storage"
	"github.com/rentalhub/marketplace-backend/tests/helpers"
)

func TestUploadService_SaveAll(t *testing.T) {
	store := storage.NewMemoryUploader()
	svc := NewUploadService(store, DefaultLimits())

	files := helpers.FileHeaders(t, FieldImages,
		helpers.PNGFile(FieldImages, "a.png"),
		helpers.PNGFile(FieldImages, "b.PNG"),
	)
	paths, err := svc.SaveAll(context.Background(), CategoryAccommodations, files)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, p := range paths {
		assert.True(t, strings.HasPrefix(p, "/uploads/accommodations/images-"), p)
		assert.True(t, store.Has(p))
	}

	svc.DeleteAll(context.Background(), paths)
	assert.Zero(t, store.Len())
}

func TestUploadService_Rejections(t *testing.T) {
	store := storage.NewMemoryUploader()
	svc := NewUploadService(store, Limits{ListingMaxSize: 1 << 20, ProfileMaxSize: 16, MaxFiles: 2})
	ctx := context.Background()

	tooMany := helpers.FileHeaders(t, FieldImages,
		helpers.PNGFile(FieldImages, "1.png"),
		helpers.PNGFile(FieldImages, "2.png"),
		helpers.PNGFile(FieldImages, "3.png"),
	)
	_, err := svc.SaveAll(ctx, CategoryVehicles, tooMany)
	assert.ErrorIs(t, err, errors.ErrTooManyFiles)

	gif := helpers.FileHeaders(t, FieldImages, helpers.UploadFile{Field: FieldImages, Name: "a.gif", ContentType: "image/gif", Data: []byte("GIF89a")})
	_, err = svc.SaveAll(ctx, CategoryVehicles, gif)
	assert.ErrorIs(t, err, errors.ErrInvalidFileType)

	// right extension, wrong content
	fake := helpers.FileHeaders(t, FieldImages, helpers.UploadFile{Field: FieldImages, Name: "a.png", ContentType: "image/png", Data: []byte("plain text")})
	_, err = svc.SaveAll(ctx, CategoryVehicles, fake)
	assert.ErrorIs(t, err, errors.ErrInvalidFileType)

	big := helpers.FileHeaders(t, FieldProfileImage, helpers.PNGFile(FieldProfileImage, "me.png"))
	_, err = svc.Save(ctx, CategoryProfiles, big[0])
	assert.ErrorIs(t, err, errors.ErrFileTooLarge)

	// one bad file stores nothing
	mixed := helpers.FileHeaders(t, FieldImages,
		helpers.PNGFile(FieldImages, "ok.png"),
		helpers.UploadFile{Field: FieldImages, Name: "bad.jpg", ContentType: "image/jpeg", Data: []byte("nope")},
	)
	_, err = svc.SaveAll(ctx, CategoryVehicles, mixed)
	assert.ErrorIs(t, err, errors.ErrInvalidFileType)
	assert.Zero(t, store.Len())

	_, err = svc.SaveAll(ctx, "documents", nil)
	assert.ErrorIs(t, err, errors.ErrInvalidParams)
}

func TestUploadService_Rules(t *testing.T) {
	svc := NewUploadService(storage.NewMemoryUploader(), Limits{})
	assert.Equal(t, Rule{Field: FieldImages, MaxFiles: 5, MaxSize: 5 << 20}, svc.Rule(CategoryAccommodations))
	assert.Equal(t, Rule{Field: FieldProfileImage, MaxFiles: 1, MaxSize: 2 << 20}, svc.Rule(CategoryProfiles))
	assert.Equal(t, FieldPaymentProof, svc.Rule(CategoryPayments).Field)
}
