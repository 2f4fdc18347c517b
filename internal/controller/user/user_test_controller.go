package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/otabekshirinov/testhub/internal/controller"
	"github.com/otabekshirinov/testhub/internal/dto"
	"github.com/otabekshirinov/testhub/internal/middleware"
	"github.com/otabekshirinov/testhub/internal/service"
	"github.com/rs/zerolog/log"
)

type UserTestController struct {
	userTestService service.UserTestService
	attemptService  service.AttemptService
	resultService   service.ResultService
}

func NewUserTestController(
	userTestService service.UserTestService,
	attemptService service.AttemptService,
	resultService service.ResultService,
) *UserTestController {
	return &UserTestController{
		userTestService: userTestService,
		attemptService:  attemptService,
		resultService:   resultService,
	}
}

// GetAllTests godoc
// @Summary List tests available for taking
// @Tags Tests & Attempts
// @Produce json
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests [get]
func (ctl *UserTestController) GetAllTests(c *gin.Context) {
	tests, err := ctl.userTestService.GetAllTests()
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tests)
}

// GetDashboard godoc
// @Summary Personal dashboard
// @Description Every test with the maximum achievable score and the caller's most recent attempt.
// @Tags Tests & Attempts
// @Produce json
// @Success 200 {object} dto.DashboardDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /dashboard [get]
func (ctl *UserTestController) GetDashboard(c *gin.Context) {
	board, err := ctl.userTestService.GetDashboard(middleware.CurrentUserID(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetTestOverview godoc
// @Summary Pre-attempt view of a test
// @Description Metadata and question count only; question bodies are revealed when the attempt starts.
// @Tags Tests & Attempts
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestSummaryDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{test_id} [get]
func (ctl *UserTestController) GetTestOverview(c *gin.Context) {
	testID, ok := pathID(c, "test_id")
	if !ok {
		return
	}
	overview, err := ctl.userTestService.GetTestOverview(testID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// StartAttempt godoc
// @Summary Start or resume an attempt
// @Description Idempotent: refreshing returns the same attempt with the same questions in the same order and a server-computed remaining time. Answer order is reshuffled per render.
// @Tags Tests & Attempts
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.AttemptViewDTO
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 409 {object} dto.ErrorResponse "Test has no questions"
// @Router /tests/{test_id}/attempt [get]
func (ctl *UserTestController) StartAttempt(c *gin.Context) {
	testID, ok := pathID(c, "test_id")
	if !ok {
		return
	}
	view, err := ctl.attemptService.StartAttempt(middleware.CurrentUserID(c), testID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitAttempt godoc
// @Summary Submit the attempt's answers
// @Description Scores the selected answers and finalizes the attempt exactly once. An empty submission after the time limit auto-completes with zero; before the limit it is rejected and the attempt stays open.
// @Tags Tests & Attempts
// @Accept json
// @Produce json
// @Param test_id path int true "Test ID"
// @Param submission body dto.AttemptSubmitDTO true "Selected answers"
// @Success 200 {object} dto.ResultSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "No answers selected"
// @Failure 404 {object} dto.ErrorResponse "No attempt in progress"
// @Failure 409 {object} dto.ErrorResponse "Already completed; result_id points at the existing result"
// @Router /tests/{test_id}/attempt [post]
func (ctl *UserTestController) SubmitAttempt(c *gin.Context) {
	testID, ok := pathID(c, "test_id")
	if !ok {
		return
	}
	var req dto.AttemptSubmitDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAttempt: failed to bind JSON")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := ctl.attemptService.SubmitAttempt(middleware.CurrentUserID(c), testID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMyResult godoc
// @Summary View one of the caller's results
// @Tags Tests & Attempts
// @Produce json
// @Param result_id path int true "Result ID"
// @Success 200 {object} dto.ResultDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /results/{result_id} [get]
func (ctl *UserTestController) GetMyResult(c *gin.Context) {
	resultID, ok := pathID(c, "result_id")
	if !ok {
		return
	}
	detail, err := ctl.resultService.GetUserResult(middleware.CurrentUserID(c), resultID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetMyResultsForTest godoc
// @Summary List the caller's completed attempts for a test
// @Tags Tests & Attempts
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {array} dto.ResultSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests/{test_id}/my-results [get]
func (ctl *UserTestController) GetMyResultsForTest(c *gin.Context) {
	testID, ok := pathID(c, "test_id")
	if !ok {
		return
	}
	results, err := ctl.resultService.GetUserResultsForTest(middleware.CurrentUserID(c), testID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
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
