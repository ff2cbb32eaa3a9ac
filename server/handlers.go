package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"art_academy_writer/exporter"
	"art_academy_writer/generator"
)

// HeaderDraftID carries the id of the draft saved for a generated report.
const HeaderDraftID = "X-Draft-ID"

type dailyMessageResp struct {
	Message string `json:"message"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (s *Server) handleDailyMessage(c echo.Context) error {
	var req generator.DailyMessageRequest
	if err := c.Bind(&req); err != nil {
		return dailyPipeline.fail(&generator.Error{Kind: generator.KindBadRequest, Err: errors.Wrap(err, "binding request")})
	}
	msg, err := s.agent.GenerateDailyMessage(c.Request().Context(), req)
	if err != nil {
		return dailyPipeline.fail(err)
	}
	return c.JSON(http.StatusOK, dailyMessageResp{Message: msg})
}

func (s *Server) handleReport(c echo.Context) error {
	var req generator.ReportRequest
	if err := c.Bind(&req); err != nil {
		return reportPipeline.fail(errors.Wrap(err, "binding request"))
	}
	content, err := s.agent.GenerateReport(c.Request().Context(), req)
	if err != nil {
		return reportPipeline.fail(err)
	}
	draft := s.drafts.create(req, content)
	c.Response().Header().Set(HeaderDraftID, draft.ID)
	return c.JSON(http.StatusOK, content)
}

func (s *Server) handleDraftGet(c echo.Context) error {
	d, ok := s.drafts.get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, msgDraftNotFound)
	}
	return c.JSON(http.StatusOK, d)
}

func (s *Server) handleDraftUpdate(c echo.Context) error {
	var edit draftEdit
	if err := c.Bind(&edit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequest).SetInternal(err)
	}
	d, ok := s.drafts.update(c.Param("id"), edit)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, msgDraftNotFound)
	}
	return c.JSON(http.StatusOK, d)
}

func (s *Server) handleDraftExport(c echo.Context) error {
	d, ok := s.drafts.get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, msgDraftNotFound)
	}
	page, err := exporter.RenderHTML(exporter.Report{
		AcademyName: s.academy,
		StudentName: d.StudentName,
		StudentAge:  d.StudentAge,
		ClassName:   d.ClassName,
		CreatedAt:   d.CreatedAt,
		Sections:    d.Content.Sections(),
	})
	if err != nil {
		return errors.Wrap(err, "exporting draft")
	}
	return c.HTML(http.StatusOK, page)
}
