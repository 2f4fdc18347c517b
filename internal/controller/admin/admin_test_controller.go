package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/otabekshirinov/testhub/internal/controller"
	"github.com/otabekshirinov/testhub/internal/dto"
	"github.com/otabekshirinov/testhub/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminTestController struct {
	adminTestService service.AdminTestService
	resultService    service.ResultService
}

func NewAdminTestController(adminTestService service.AdminTestService, resultService service.ResultService) *AdminTestController {
	return &AdminTestController{adminTestService: adminTestService, resultService: resultService}
}

// CreateTest godoc
// @Summary (Admin) Create a test
// @Description Creates a test shell; questions are added separately. Time limit is clamped to 0..240 minutes, 0 meaning unlimited.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Param test_data body dto.TestSaveDTO true "Test data"
// @Success 201 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/tests [post]
func (ctl *AdminTestController) CreateTest(c *gin.Context) {
	var req dto.TestSaveDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateTest: failed to bind JSON")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := ctl.adminTestService.CreateTest(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateTest godoc
// @Summary (Admin) Update test metadata
// @Description Updates title, description and limits. Questions-per-attempt is clamped to 1..question-count, or cleared while the test has no questions.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Param test_id path int true "Test ID"
// @Param test_data body dto.TestSaveDTO true "Test data"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tests/{test_id} [put]
func (ctl *AdminTestController) UpdateTest(c *gin.Context) {
	testID, ok := pathID(c, "test_id")
	if !ok {
		return
	}
	var req dto.TestSaveDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := ctl.adminTestService.UpdateTest(testID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteTest godoc
// @Summary (Admin) Delete a test
// @Description Deletes the test and cascades to its questions, answers, attempts and submitted answers.
// @Tags Admin - Tests
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tests/{test_id} [delete]
func (ctl *AdminTestController) DeleteTest(c *gin.Context) {
	testID, ok := pathID(c, "test_id")
	if !ok {
		return
	}
	if err := ctl.adminTestService.DeleteTest(testID); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTests godoc
// @Summary (Admin) List all tests
// @Tags Admin - Tests
// @Produce json
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/tests [get]
func (ctl *AdminTestController) ListTests(c *gin.Context) {
	tests, err := ctl.adminTestService.ListTests()
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tests)
}

// GetTest godoc
// @Summary (Admin) View a test with questions and answers
// @Tags Admin - Tests
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tests/{test_id} [get]
func (ctl *AdminTestController) GetTest(c *gin.Context) {
	testID, ok := pathID(c, "test_id")
	if !ok {
		return
	}
	resp, err := ctl.adminTestService.GetTest(testID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddQuestion godoc
// @Summary (Admin) Add a question to a test
// @Description Requires at least two answers and a 1-based correct_index selecting exactly one of them.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param test_id path int true "Test ID"
// @Param question_data body dto.QuestionSaveDTO true "Question data"
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tests/{test_id}/questions [post]
func (ctl *AdminTestController) AddQuestion(c *gin.Context) {
	testID, ok := pathID(c, "test_id")
	if !ok {
		return
	}
	var req dto.QuestionSaveDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin AddQuestion: failed to bind JSON")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := ctl.adminTestService.AddQuestion(testID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateQuestion godoc
// @Summary (Admin) Edit a question
// @Description Replaces the question text and its whole answer set.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question_id path int true "Question ID"
// @Param question_data body dto.QuestionSaveDTO true "Question data"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/questions/{question_id} [put]
func (ctl *AdminTestController) UpdateQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionSaveDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := ctl.adminTestService.UpdateQuestion(questionID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Description Deletes the question, its answers and any submitted answers referencing it.
// @Tags Admin - Questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} map[string]uint "Owning test id"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/questions/{question_id} [delete]
func (ctl *AdminTestController) DeleteQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "question_id")
	if !ok {
		return
	}
	testID, err := ctl.adminTestService.DeleteQuestion(questionID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"test_id": testID})
}

// GetTestResults godoc
// @Summary (Admin) List a test's completed attempts with stats
// @Description Attempts ordered by score descending, with max/avg/min recomputed on each call. The test's explicit max score wins over the observed maximum when configured.
// @Tags Admin - Results
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResultsDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tests/{test_id}/results [get]
func (ctl *AdminTestController) GetTestResults(c *gin.Context) {
	testID, ok := pathID(c, "test_id")
	if !ok {
		return
	}
	resp, err := ctl.resultService.GetTestResults(testID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetResult godoc
// @Summary (Admin) View any user's result in detail
// @Tags Admin - Results
// @Produce json
// @Param result_id path int true "Result ID"
// @Success 200 {object} dto.ResultDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/results/{result_id} [get]
func (ctl *AdminTestController) GetResult(c *gin.Context) {
	resultID, ok := pathID(c, "result_id")
	if !ok {
		return
	}
	resp, err := ctl.resultService.GetResult(resultID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
