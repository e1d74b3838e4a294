package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/valpere/transerve/internal/store"
	"github.com/valpere/transerve/internal/translator"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type TranslationResponse struct {
	TranslatedText string `json:"translated_text"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: s.opts.Message})
}

func (s *Server) handleTranslate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.abort(c, &APIError{Status: http.StatusRequestEntityTooLarge, Message: "Request body too large"})
			return
		}
		s.abort(c, errMissingPayload)
		return
	}

	payload, apiErr := decodePayload(body)
	if apiErr != nil {
		s.abort(c, apiErr)
		return
	}

	fields, apiErr := requireFields(payload, s.required)
	if apiErr != nil {
		s.abort(c, apiErr)
		return
	}

	req := translator.Request{
		Text:       fields[fieldText],
		SourceLang: fields[fieldSourceLang],
		TargetLang: fields[fieldTargetLang],
	}

	start := time.Now()
	res, err := s.translator.Translate(c.Request.Context(), req)
	s.record(c, req, res, err, start)

	if err != nil {
		engine := s.translator.Name()
		if te, ok := translator.AsError(err); ok {
			engine = te.Engine
		}
		s.logger.ErrorContext(c.Request.Context(), "translation failed",
			"engine", engine,
			"source_lang", req.SourceLang,
			"target_lang", req.TargetLang,
			"error", err,
			requestIDKey, requestID(c),
		)
		s.abort(c, errTranslationFailure(err))
		return
	}

	c.JSON(http.StatusOK, TranslationResponse{TranslatedText: res.TranslatedText})
}

func (s *Server) abort(c *gin.Context, e *APIError) {
	c.AbortWithStatusJSON(e.Status, ErrorResponse{Error: e.Message})
}

func (s *Server) record(c *gin.Context, req translator.Request, res *translator.Result, err error, start time.Time) {
	if s.opts.RequestLog == nil {
		return
	}

	rec := store.RequestRecord{
		RequestID:  requestID(c),
		SourceText: req.Text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Engine:     s.translator.Name(),
		Latency:    time.Since(start),
		Timestamp:  start,
	}
	if err != nil {
		rec.Error = err.Error()
	} else {
		rec.TranslatedText = res.TranslatedText
		if res.SourceLang != "" {
			rec.SourceLang = res.SourceLang
		}
		if res.TargetLang != "" {
			rec.TargetLang = res.TargetLang
		}
	}

	if saveErr := s.opts.RequestLog.SaveRequest(c.Request.Context(), rec); saveErr != nil {
		s.logger.WarnContext(c.Request.Context(), "failed to record request", "error", saveErr, requestIDKey, rec.RequestID)
	}
}
