package web

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/interviewer/internal/catalog"
	"github.com/abhisek/interviewer/internal/chart"
	"github.com/abhisek/interviewer/internal/coach"
	"github.com/abhisek/interviewer/internal/session"
)

type catalogResponse struct {
	*catalog.Catalog
	Default catalog.Selection `json:"default"`
}

type chartPayload struct {
	Kind    chart.Kind `json:"kind"`
	Caption string     `json:"caption"`
	Data    chart.Data `json:"data"`
	PNG     string     `json:"png_base64"`
}

type chartResponse struct {
	session.Outcome
	Chart *chartPayload `json:"chart,omitempty"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// GET /api/v1/catalog
func (s *Server) apiCatalog(c *gin.Context) {
	cat := s.manager.Catalog()
	c.JSON(http.StatusOK, catalogResponse{Catalog: cat, Default: cat.DefaultSelection()})
}

// GET /api/v1/session
func (s *Server) apiSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.session(c).Snapshot())
}

// POST /api/v1/question
func (s *Server) apiQuestion(c *gin.Context) {
	sess := s.session(c)
	var sel catalog.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, sess.Import(c.Request.Context(), sel))
}

// POST /api/v1/chart
func (s *Server) apiChart(c *gin.Context) {
	sess := s.session(c)
	var sel catalog.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		badRequest(c, err)
		return
	}
	out, res := sess.Chart(sel)
	body := chartResponse{Outcome: out}
	if res != nil {
		body.Chart = &chartPayload{
			Kind:    res.Kind,
			Caption: res.Caption,
			Data:    res.Data,
			PNG:     base64.StdEncoding.EncodeToString(res.Image),
		}
	}
	c.JSON(statusFor(out), body)
}

// POST /api/v1/hint
func (s *Server) apiHint(c *gin.Context) {
	respond(c, s.session(c).Hint(c.Request.Context()))
}

// POST /api/v1/solution
func (s *Server) apiSolution(c *gin.Context) {
	respond(c, s.session(c).Solution(c.Request.Context()))
}

// POST /api/v1/evaluate[?format=scorecard]
func (s *Server) apiEvaluate(c *gin.Context) {
	sess := s.session(c)
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if c.Query("format") == "scorecard" {
		respond(c, sess.Scorecard(c.Request.Context(), req.Answer))
		return
	}
	respond(c, sess.Evaluate(c.Request.Context(), req.Answer))
}

func respond(c *gin.Context, out session.Outcome) {
	c.JSON(statusFor(out), out)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"status": "failed", "text": "invalid request body: " + err.Error()})
}

// statusFor maps an action outcome to an HTTP status code.
func statusFor(out session.Outcome) int {
	var selErr *catalog.SelectionError
	switch {
	case out.Status == session.StatusOK:
		return http.StatusOK
	case out.Status == session.StatusWarning:
		return http.StatusUnprocessableEntity
	case errors.Is(out.Err, session.ErrNoQuestion):
		return http.StatusConflict
	case errors.As(out.Err, &selErr), errors.Is(out.Err, session.ErrNotChartMode):
		return http.StatusBadRequest
	case out.Reason == coach.ReasonTimeout:
		return http.StatusGatewayTimeout
	case out.Reason != "":
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
