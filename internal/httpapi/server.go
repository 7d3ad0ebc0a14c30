package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"transbridge/internal/globaltime"
	"transbridge/internal/translation"
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// APITokenHash enables bearer-token auth when non-empty.
	APITokenHash string
}

type Server struct {
	translator *translation.Translator
	registry   *translation.Registry
	logger     zerolog.Logger
	opts       Options
}

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
	Provider       string `json:"provider"`
	DurationMS     int64  `json:"duration_ms"`
}

type streamChunk struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

func NewServer(translator *translation.Translator, registry *translation.Registry, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8810
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		// Streaming responses stay open across many chunk delays.
		writeTimeout = 5 * time.Minute
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &Server{
		translator: translator,
		registry:   registry,
		logger:     logger,
		opts: Options{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			APITokenHash:    opts.APITokenHash,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.translator == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.buildEcho()

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Str("provider", s.translator.ProviderName()).Msg("transbridge server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("transbridge server stopped")
	return nil
}

func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("remote_ip", v.RemoteIP).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	api := e.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/languages", s.handleLanguages)

	protected := api.Group("", bearerAuthMiddleware(s.opts.APITokenHash))
	protected.POST("/translate", s.handleTranslate)
	protected.POST("/translate/stream", s.handleTranslateStream)

	return e
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	} else if err != nil {
		message = err.Error()
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message, nil)
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service":  "transbridge",
		"provider": s.translator.ProviderName(),
		"time":     globaltime.UTC(),
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	return success(c, map[string]any{
		"items": translation.LanguageOptions(s.registry),
	})
}

func (s *Server) handleTranslate(c echo.Context) error {
	req, err := s.bindTranslateRequest(c)
	if err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	started := time.Now()
	resp, err := s.translator.Translate(c.Request().Context(), *req)
	if err != nil {
		return s.translateError(c, err)
	}

	return success(c, translateResponse{
		TranslatedText: resp.Text,
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
		Provider:       s.translator.ProviderName(),
		DurationMS:     time.Since(started).Milliseconds(),
	})
}

func (s *Server) handleTranslateStream(c echo.Context) error {
	req, err := s.bindTranslateRequest(c)
	if err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	// The request context cancels the producer when the client disconnects.
	stream, err := s.translator.TranslateStream(c.Request().Context(), *req)
	if err != nil {
		return s.translateError(c, err)
	}
	defer stream.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	for {
		chunk, recvErr := stream.Recv()
		if recvErr != nil {
			if errors.Is(recvErr, io.EOF) {
				return nil
			}
			if translation.IsCancellation(recvErr) {
				return nil
			}
			s.logger.Error().Err(recvErr).Msg("translation stream failed")
			writeSSEError(res, recvErr)
			return nil
		}

		if writeErr := writeSSEChunk(res, streamChunk{Text: chunk.Text, Final: chunk.Final}); writeErr != nil {
			return nil
		}
		res.Flush()
	}
}

func (s *Server) bindTranslateRequest(c echo.Context) (*translation.Request, error) {
	var body translateRequest
	if err := c.Bind(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON body")
	}
	req, err := translation.NewRequest(body.Text, body.SourceLang, body.TargetLang)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Server) translateError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, translation.ErrInvalidRequest):
		return failValidation(c, map[string]string{"request": err.Error()})
	case errors.Is(err, translation.ErrStreamingUnsupported):
		return fail(c, http.StatusNotImplemented, err.Error(), nil)
	case translation.IsCancellation(err):
		// The client went away; nothing useful to send.
		return nil
	case translation.IsTransient(err):
		s.logger.Error().Err(err).Msg("translation failed after retries")
		return fail(c, http.StatusServiceUnavailable, "Translation backend is unavailable", nil)
	default:
		s.logger.Error().Err(err).Msg("translation failed")
		return fail(c, http.StatusBadGateway, "Translation failed", nil)
	}
}

func writeSSEChunk(res *echo.Response, chunk streamChunk) error {
	payload, err := json.Marshal(chunk)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(res, "data: %s\n\n", payload)
	return err
}

func writeSSEError(res *echo.Response, cause error) {
	payload, err := json.Marshal(map[string]string{"message": cause.Error()})
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(res, "event: error\ndata: %s\n\n", payload)
	res.Flush()
}
