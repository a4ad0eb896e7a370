package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classtrack/internal/apperr"
	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/metrics"
	"classtrack/internal/report"
	"classtrack/internal/roster"
)

// login exchanges a teacher identifier for a signed token pair. Identity
// issuance itself lives in the external provider; this endpoint only turns
// its stable identifier into a bearer credential.
func (s *Server) login(c *gin.Context) {
	var req struct {
		TeacherID string `json:"teacher_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.New(apperr.InvalidInput, "teacher_id is required"))
		return
	}
	tokens, err := auth.Issue(req.TeacherID, s.jwtIssuer, s.jwtKey, s.accessTTL, s.refreshTTL)
	if err != nil {
		s.fail(c, apperr.Wrap("token issue failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}

func (s *Server) createClassroom(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.New(apperr.InvalidInput, "invalid payload"))
		return
	}
	classroom, err := s.roster.CreateClassroom(c.Request.Context(), auth.TeacherID(c), req.Name, req.Description)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"classroom": classroom})
}

func (s *Server) listClassrooms(c *gin.Context) {
	classrooms, err := s.roster.ListClassrooms(c.Request.Context(), auth.TeacherID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	if classrooms == nil {
		classrooms = []roster.Classroom{}
	}
	c.JSON(http.StatusOK, gin.H{"classrooms": classrooms})
}

func (s *Server) getClassroom(c *gin.Context) {
	classroom, students, err := s.roster.GetClassroom(c.Request.Context(), auth.TeacherID(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if students == nil {
		students = []roster.Student{}
	}
	c.JSON(http.StatusOK, gin.H{"classroom": classroom, "students": students})
}

func (s *Server) deleteClassroom(c *gin.Context) {
	if err := s.roster.DeleteClassroom(c.Request.Context(), auth.TeacherID(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) addStudent(c *gin.Context) {
	var req struct {
		ClassroomID string `json:"classroom_id"`
		RollNo      string `json:"roll_no"`
		Name        string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.New(apperr.InvalidInput, "invalid payload"))
		return
	}
	student, err := s.roster.AddStudent(c.Request.Context(), auth.TeacherID(c), req.ClassroomID, req.RollNo, req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"student": student})
}

func (s *Server) deleteStudent(c *gin.Context) {
	if err := s.roster.DeleteStudent(c.Request.Context(), auth.TeacherID(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) copyRoster(c *gin.Context) {
	var req struct {
		SourceClassroomID string `json:"source_classroom_id"`
		TargetClassroomID string `json:"target_classroom_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.New(apperr.InvalidInput, "invalid payload"))
		return
	}
	copied, err := s.roster.CopyRoster(c.Request.Context(), auth.TeacherID(c), req.SourceClassroomID, req.TargetClassroomID)
	if err != nil {
		s.fail(c, err)
		return
	}
	metrics.RosterCopies.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "copied_count": copied})
}

func (s *Server) submitAttendance(c *gin.Context) {
	var req struct {
		ClassroomID string             `json:"classroom_id"`
		Records     []attendance.Entry `json:"records"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.New(apperr.InvalidInput, "invalid payload"))
		return
	}
	inserted, err := s.att.Submit(c.Request.Context(), auth.TeacherID(c), req.ClassroomID, req.Records)
	if err != nil {
		s.fail(c, err)
		return
	}
	metrics.AttendanceInserted.Add(float64(inserted))
	c.JSON(http.StatusCreated, gin.H{"success": true, "inserted_count": inserted})
}

// filterFromQuery builds the report filter from query parameters.
func filterFromQuery(c *gin.Context) (report.Filter, error) {
	f := report.Filter{
		Date:        c.Query("date"),
		ClassroomID: c.Query("classroom_id"),
		Status:      c.Query("status"),
		Query:       c.Query("q"),
	}
	if f.Status != "" &&
		!strings.EqualFold(f.Status, report.StatusPresent) &&
		!strings.EqualFold(f.Status, report.StatusAbsent) {
		return f, apperr.New(apperr.InvalidInput, "status must be present or absent")
	}
	if f.Date != "" {
		if _, err := time.Parse(attendance.DateLayout, f.Date); err != nil {
			return f, apperr.New(apperr.InvalidInput, "date must be YYYY-MM-DD")
		}
	}
	return f, nil
}

func (s *Server) listAttendance(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	records, err := s.att.ListForTeacher(c.Request.Context(), auth.TeacherID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	metrics.ReportsServed.Inc()
	c.JSON(http.StatusOK, gin.H{"records": f.Apply(records)})
}

func (s *Server) exportAttendance(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", "pdf"))
	if format != "pdf" && format != "xlsx" {
		s.fail(c, apperr.New(apperr.InvalidInput, "format must be pdf or xlsx"))
		return
	}

	records, err := s.att.ListForTeacher(c.Request.Context(), auth.TeacherID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	filtered := f.Apply(records)

	filename := fmt.Sprintf("attendance_records_%s.%s", time.Now().Format("2006-01-02"), format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	switch format {
	case "pdf":
		c.Header("Content-Type", "application/pdf")
		err = report.WritePDF(c.Writer, "Attendance Records", filtered)
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = report.WriteXLSX(c.Writer, "Attendance", filtered)
	}
	if err != nil {
		s.log.Error("export failed", zap.String("format", format), zap.Error(err))
		return
	}
	metrics.ExportsServed.WithLabelValues(format).Inc()
}
