package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/AnyUserName/picpack/internal/api"
	"github.com/AnyUserName/picpack/internal/hasher"
	"github.com/AnyUserName/picpack/internal/pipeline"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	formImage   = "image"
	formOptions = "options"
)

var errTooLarge = errors.New("upload exceeds limit")

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"encoders": s.gen.Formats(),
	})
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// upload reads the image either from the multipart field "image" or the
// raw request body, bounded by MaxUploadBytes.
func (s *Server) upload(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	var r io.Reader = c.Request.Body
	if isMultipart(c) {
		f, _, err := c.Request.FormFile(formImage)
		if err != nil {
			return nil, limitErr(err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, limitErr(err)
	}
	return data, nil
}

func limitErr(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return errTooLarge
	}
	return err
}

// uploadFailed writes the record for a failed upload read.
func uploadFailed(c *gin.Context, err error, record any) {
	status := http.StatusBadRequest
	if errors.Is(err, errTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	writeRecord(c, status, record)
}

func (s *Server) placeholder(c *gin.Context) {
	data, err := s.upload(c)
	if err != nil {
		uploadFailed(c, err, api.PlaceholderRecord{Error: pipeline.MsgDecode})
		return
	}

	fp := hasher.Fingerprint(data)
	c.Header(headerFingerprint, fp)

	// Records depend on the pipeline settings as well as the bytes.
	key := s.gen.CacheTag() + ":" + fp
	ctx := c.Request.Context()
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn("cache get", zap.String("fingerprint", fp), zap.Error(err))
	} else if ok {
		c.Header(headerCache, "hit")
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}
	c.Header(headerCache, "miss")

	p, err := s.gen.Placeholder(data)
	rec := api.NewPlaceholderRecord(p, err)
	if err != nil {
		s.log.Debug("placeholder failed", zap.String("fingerprint", fp), zap.Error(err))
		writeRecord(c, statusOf(err), rec)
		return
	}

	body, err := api.Marshal(rec)
	if err != nil {
		writeRecord(c, http.StatusInternalServerError, api.PlaceholderRecord{Error: pipeline.MsgPlaceholderEncode})
		return
	}
	if err := s.cache.Set(ctx, key, body); err != nil {
		s.log.Warn("cache set", zap.String("fingerprint", fp), zap.Error(err))
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// resizeOptions reads options from the multipart field "options" (raw
// JSON) when present, else from the query string.
func resizeOptions(c *gin.Context) (pipeline.Options, error) {
	if isMultipart(c) {
		if raw, ok := c.GetPostForm(formOptions); ok {
			return api.ParseResizeOptions([]byte(raw))
		}
	}
	var q api.ResizeOptions
	if err := c.ShouldBindQuery(&q); err != nil {
		return pipeline.Options{}, pipeline.NewError(pipeline.KindOptions, pipeline.MsgOptions, err)
	}
	return q.Options()
}

func (s *Server) resize(c *gin.Context) {
	data, err := s.upload(c)
	if err != nil {
		uploadFailed(c, err, api.ResizeRecord{Error: pipeline.MsgDecode})
		return
	}
	opts, err := resizeOptions(c)
	if err != nil {
		writeRecord(c, statusOf(err), api.NewResizeRecord(nil, err))
		return
	}

	res, err := s.gen.Resize(data, opts)
	if err != nil {
		s.log.Debug("resize failed", zap.Error(err))
		writeRecord(c, statusOf(err), api.NewResizeRecord(nil, err))
		return
	}
	c.Header(headerETag, `"`+hasher.ContentHash(res.Data, 16)+`"`)
	c.Data(http.StatusOK, res.MIMEType, res.Data)
}

func (s *Server) fingerprint(c *gin.Context) {
	data, err := s.upload(c)
	if err != nil {
		uploadFailed(c, err, gin.H{"error": pipeline.MsgDecode})
		return
	}
	fp := hasher.Fingerprint(data)
	c.Header(headerFingerprint, fp)
	writeRecord(c, http.StatusOK, api.FingerprintRecord{Fingerprint: fp, Size: len(data)})
}
