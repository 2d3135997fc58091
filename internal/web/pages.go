package web

import (
	"encoding/base64"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/interviewer/internal/catalog"
	"github.com/abhisek/interviewer/internal/chart"
	"github.com/abhisek/interviewer/internal/session"
)

// formInput is what every form post carries: the selection widgets and
// the answer box.
type formInput struct {
	Role   string `form:"role"`
	Level  string `form:"level"`
	Topic  string `form:"topic"`
	Answer string `form:"answer"`
}

func (f formInput) selection() catalog.Selection {
	return catalog.Selection{Role: f.Role, Level: f.Level, Topic: f.Topic}
}

type chartView struct {
	Caption string
	DataURI template.URL
	Summary string
}

type pageData struct {
	Catalog   *catalog.Catalog
	Topics    []string
	Selection catalog.Selection
	ChartMode bool
	Session   session.Snapshot
	Answer    string
	Result    *session.Outcome
	Chart     *chartView
}

// GET /?role=&level=&topic=
//
// Query values override the session's selection, so changing a dropdown
// re-renders the form with the chart button before anything is imported.
// render falls back to the default selection when the result is invalid.
func (s *Server) indexPage(c *gin.Context) {
	sess := s.session(c)
	snap := sess.Snapshot()

	sel := s.manager.Catalog().DefaultSelection()
	if snap.Selection != nil {
		sel = *snap.Selection
	}
	var q formInput
	if err := c.ShouldBindQuery(&q); err == nil {
		sel = overlay(sel, q.selection())
	}
	s.render(c, sess, sel, formInput{}, nil, nil)
}

// POST /question
func (s *Server) postQuestion(c *gin.Context) {
	sess, in := s.session(c), bindForm(c)
	out := sess.Import(c.Request.Context(), in.selection())
	s.render(c, sess, in.selection(), in, &out, nil)
}

// POST /chart
func (s *Server) postChart(c *gin.Context) {
	sess, in := s.session(c), bindForm(c)
	out, res := sess.Chart(in.selection())
	s.render(c, sess, in.selection(), in, &out, newChartView(res))
}

// POST /hint
func (s *Server) postHint(c *gin.Context) {
	sess, in := s.session(c), bindForm(c)
	out := sess.Hint(c.Request.Context())
	s.render(c, sess, in.selection(), in, &out, nil)
}

// POST /solution
func (s *Server) postSolution(c *gin.Context) {
	sess, in := s.session(c), bindForm(c)
	out := sess.Solution(c.Request.Context())
	s.render(c, sess, in.selection(), in, &out, nil)
}

// POST /evaluate
func (s *Server) postEvaluate(c *gin.Context) {
	sess, in := s.session(c), bindForm(c)
	out := sess.Evaluate(c.Request.Context(), in.Answer)
	s.render(c, sess, in.selection(), in, &out, nil)
}

// overlay replaces the fields of sel that are set in q.
func overlay(sel, q catalog.Selection) catalog.Selection {
	for dst, v := range map[*string]string{&sel.Role: q.Role, &sel.Level: q.Level, &sel.Topic: q.Topic} {
		if v != "" {
			*dst = v
		}
	}
	return sel
}

func bindForm(c *gin.Context) formInput {
	var in formInput
	// Missing fields fail selection validation later; nothing to do here.
	_ = c.ShouldBind(&in)
	return in
}

func (s *Server) render(c *gin.Context, sess *session.Session, sel catalog.Selection, in formInput, out *session.Outcome, cv *chartView) {
	cat := s.manager.Catalog()
	if cat.Validate(sel) != nil {
		sel = cat.DefaultSelection()
	}
	c.HTML(http.StatusOK, "index.tmpl", pageData{
		Catalog:   cat,
		Topics:    cat.AllTopics(),
		Selection: sel,
		ChartMode: cat.IsChartMode(sel),
		Session:   sess.Snapshot(),
		Answer:    in.Answer,
		Result:    out,
		Chart:     cv,
	})
}

func newChartView(res *chart.Result) *chartView {
	if res == nil {
		return nil
	}
	return &chartView{
		Caption: res.Caption,
		DataURI: template.URL(pngDataURI(res.Image)),
		Summary: res.Data.Describe(),
	}
}

func pngDataURI(img []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
}
