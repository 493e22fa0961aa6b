package controllers

import (
	"io"
	"net/http"

	"github.com/lidosole/lidosole/app/services"
	"github.com/lidosole/lidosole/pkg/logger"
	"github.com/lidosole/lidosole/pkg/response"
)

const maxUploadBytes = 10 << 20

// ImageController serves /api/images. Uploads are multipart under the
// "file" field with an optional "description".
type ImageController struct {
	images *services.ImageService
}

func NewImageController(images *services.ImageService) *ImageController {
	return &ImageController{images: images}
}

func (c *ImageController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	image, err := c.images.Upload(r.Context(), file, header.Size,
		header.Header.Get("Content-Type"), r.FormValue("description"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, image)
}

func (c *ImageController) GetList(w http.ResponseWriter, r *http.Request) {
	images, page, err := c.images.GetList(r.Context(), pageRequest(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, images, page)
}

func (c *ImageController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	image, err := c.images.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, image)
}

// Content streams the raw blob.
func (c *ImageController) Content(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	rc, contentType, err := c.images.Stream(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, rc); err != nil {
		logger.WithCtx(r.Context()).Warn("image: stream aborted", "image_id", id, "error", err)
	}
}

func (c *ImageController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.images.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// WeatherController serves /api/weather.
type WeatherController struct {
	weather *services.WeatherService
}

func NewWeatherController(weather *services.WeatherService) *WeatherController {
	return &WeatherController{weather: weather}
}

func (c *WeatherController) Current(w http.ResponseWriter, r *http.Request) {
	reading, err := c.weather.Current(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, reading)
}
