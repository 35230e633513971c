package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"schematic/canvas"
	"schematic/demo"
	"schematic/diagram"
	"schematic/export"
	"schematic/importer"
	"schematic/render"
)

// Response headers set on every render.
const (
	HeaderRenderID  = "X-Render-ID"
	HeaderOverflows = "X-Layout-Overflows"
)

// FormatInfo describes one export format.
type FormatInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ContentType string `json:"content_type"`
	Extension   string `json:"extension"`
}

// OverflowInfo is the JSON form of a layout diagnostic.
type OverflowInfo struct {
	Kind   string  `json:"kind"`
	Region string  `json:"region,omitempty"`
	Child  string  `json:"child,omitempty"`
	Amount float64 `json:"amount"`
	Text   string  `json:"text"`
}

// ValidationResult reports a render without its output.
type ValidationResult struct {
	ID        string         `json:"id"`
	Calls     int            `json:"calls"`
	Anchors   int            `json:"anchors"`
	Overflows []OverflowInfo `json:"overflows"`
}

// HandleHealth returns server health status.
func (s *Server) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"metrics": s.cfg.Render.Metrics,
	})
}

// HandleFormats lists the export formats.
func (s *Server) HandleFormats(c echo.Context) error {
	descriptions := export.FormatDescriptions()
	formats := make([]FormatInfo, 0, len(export.AvailableFormats()))
	for _, f := range export.AvailableFormats() {
		e, err := s.exporter(string(f), false)
		if err != nil {
			return err
		}
		formats = append(formats, FormatInfo{
			Name:        string(f),
			Description: descriptions[f],
			ContentType: e.ContentType(),
			Extension:   e.FileExtension(),
		})
	}
	return c.JSON(http.StatusOK, formats)
}

// HandleExample renders the built-in figure.
func (s *Server) HandleExample(c echo.Context) error {
	doc, err := demo.Figure()
	if err != nil {
		return NewInternalError("failed to build example", err)
	}
	return s.respond(c, doc)
}

// HandleRender renders the YAML or JSON document in the request body.
func (s *Server) HandleRender(c echo.Context) error {
	doc, err := s.readDocument(c)
	if err != nil {
		return err
	}
	return s.respond(c, doc)
}

// HandleValidate renders the posted document onto a recorder and reports the
// diagnostics. Overflows are never fatal here.
func (s *Server) HandleValidate(c echo.Context) error {
	doc, err := s.readDocument(c)
	if err != nil {
		return err
	}
	if err := export.CheckPage(doc, s.cfg.Render.MaxPageSize); err != nil {
		return renderError(err)
	}
	id := uuid.New().String()
	c.Response().Header().Set(HeaderRenderID, id)

	res, err := render.New(s.metrics, render.WithLogger(s.log)).Render(doc, canvas.NewRecorder())
	if err != nil {
		return renderError(err)
	}

	out := ValidationResult{
		ID:        id,
		Calls:     res.Calls,
		Anchors:   len(res.Anchors),
		Overflows: make([]OverflowInfo, len(res.Overflows)),
	}
	for i, o := range res.Overflows {
		out.Overflows[i] = OverflowInfo{
			Kind:   o.Kind.String(),
			Region: o.Region,
			Child:  o.Child,
			Amount: o.Amount,
			Text:   o.String(),
		}
	}
	c.Response().Header().Set(HeaderOverflows, strconv.Itoa(len(res.Overflows)))
	return c.JSON(http.StatusOK, out)
}

func (s *Server) readDocument(c echo.Context) (*diagram.Document, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, NewBadRequestError("failed to read request body", err)
	}
	if len(body) == 0 {
		return nil, NewBadRequestError("empty document", nil)
	}
	doc, err := importer.Parse(body)
	if err != nil {
		return nil, renderError(err)
	}
	return doc, nil
}

// respond exports doc in the requested format.
func (s *Server) respond(c echo.Context, doc *diagram.Document) error {
	strict := s.cfg.Render.Strict
	if v := c.QueryParam("strict"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return NewValidationError("strict", err)
		}
		strict = b
	}
	e, err := s.exporter(c.QueryParam("format"), strict)
	if err != nil {
		return err
	}
	if err := export.CheckPage(doc, s.cfg.Render.MaxPageSize); err != nil {
		return renderError(err)
	}

	id := uuid.New().String()
	c.Response().Header().Set(HeaderRenderID, id)

	data, res, err := e.Export(doc)
	if err != nil {
		s.log.Warn("render failed", "id", id, "format", e.FormatName(), "err", err)
		return renderError(err)
	}
	s.log.Info("rendered", "id", id, "format", e.FormatName(), "calls", res.Calls, "overflows", len(res.Overflows), "bytes", len(data))

	c.Response().Header().Set(HeaderOverflows, strconv.Itoa(len(res.Overflows)))
	return c.Blob(http.StatusOK, e.ContentType(), data)
}
