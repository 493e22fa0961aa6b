package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/responses"
	"github.com/lidosole/lidosole/pkg/apperr"
	"github.com/lidosole/lidosole/pkg/cache"
	"github.com/lidosole/lidosole/pkg/orm"
	"github.com/lidosole/lidosole/pkg/storage"
)

const imageTTL = 10 * time.Minute

var imageSortKeys = map[string]string{
	"id":   "id",
	"size": "size",
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageService stores uploaded blobs on a storage disk and their metadata in
// the database, with cache-aside reads on the metadata.
type ImageService struct {
	db    *gorm.DB
	disk  storage.Disk
	cache *cache.Cache
}

func NewImageService(db *gorm.DB, disk storage.Disk, c *cache.Cache) *ImageService {
	return &ImageService{db: db, disk: disk, cache: c}
}

func imageKey(id uint) string { return fmt.Sprintf("image:%d", id) }

// Upload streams content to the disk under a fresh uuid path and records the
// metadata row. Unsupported content types are rejected before any write.
func (s *ImageService) Upload(ctx context.Context, r io.Reader, size int64, contentType, description string) (responses.Image, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return responses.Image{}, apperr.Invalidf("unsupported content type %q", contentType)
	}

	blobPath := path.Join("images", uuid.NewString()+ext)
	if err := s.disk.PutStream(ctx, blobPath, r); err != nil {
		return responses.Image{}, fmt.Errorf("image: store blob: %w", err)
	}

	if size <= 0 {
		stored, err := s.disk.Size(ctx, blobPath)
		if err == nil {
			size = stored
		}
	}

	image := models.Image{
		Path:        blobPath,
		Size:        size,
		ContentType: contentType,
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(&image).Error; err != nil {
		// Keep disk and table consistent when the row cannot be written.
		_ = s.disk.Delete(ctx, blobPath)
		return responses.Image{}, err
	}

	out := responses.NewImage(image, s.disk.URL(blobPath))
	_ = s.cache.Set(ctx, imageKey(image.ID), out, imageTTL)
	return out, nil
}

// GetList pages through image metadata.
func (s *ImageService) GetList(ctx context.Context, req orm.PageRequest) ([]responses.Image, orm.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.Image{})
	images, page, err := orm.Page[models.Image](q, req, imageSortKeys)
	if err != nil {
		return nil, page, err
	}

	out := make([]responses.Image, len(images))
	for i, m := range images {
		out[i] = responses.NewImage(m, s.disk.URL(m.Path))
	}
	return out, page, nil
}

// Get returns one image's metadata, trying the cache first.
func (s *ImageService) Get(ctx context.Context, id uint) (responses.Image, error) {
	var cached responses.Image
	if s.cache.Get(ctx, imageKey(id), &cached) {
		return cached, nil
	}

	image, err := s.load(ctx, id)
	if err != nil {
		return responses.Image{}, err
	}

	out := responses.NewImage(image, s.disk.URL(image.Path))
	_ = s.cache.Set(ctx, imageKey(id), out, imageTTL)
	return out, nil
}

// Stream opens the stored blob for reading. Caller closes the stream.
func (s *ImageService) Stream(ctx context.Context, id uint) (io.ReadCloser, string, error) {
	image, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}

	rc, err := s.disk.GetStream(ctx, image.Path)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.NotFound, err, fmt.Sprintf("image blob %s missing", image.Path))
	}
	return rc, image.ContentType, nil
}

// Delete removes the blob and the metadata row.
func (s *ImageService) Delete(ctx context.Context, id uint) error {
	image, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Delete(&models.Image{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("image %d not found", id)
	}

	if err := s.disk.Delete(ctx, image.Path); err != nil {
		return fmt.Errorf("image: delete blob: %w", err)
	}
	_ = s.cache.Del(ctx, imageKey(id))
	return nil
}

func (s *ImageService) load(ctx context.Context, id uint) (models.Image, error) {
	var image models.Image
	if err := s.db.WithContext(ctx).First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return image, apperr.NotFoundf("image %d not found", id)
		}
		return image, err
	}
	return image, nil
}
