package teacher

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haduong/smartmcq/internal/controller"
	"github.com/haduong/smartmcq/internal/dto"
	"github.com/haduong/smartmcq/internal/service"
	"github.com/rs/zerolog/log"
)

type TestController struct {
	testSvc service.TestService
}

func NewTestController(testSvc service.TestService) *TestController {
	return &TestController{testSvc: testSvc}
}

// CreateTest godoc
// @Summary (Teacher) Create a test with questions and choices
// @Description Creates a test. Each question carries exactly four choices labeled A to D with exactly one marked correct.
// @Tags Teacher - Tests
// @Accept json
// @Produce json
// @Param test body dto.TestCreateDTO true "Test definition"
// @Success 201 {object} dto.TestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid release mode or malformed choices"
// @Router /teacher/tests [post]
func (ctrl *TestController) CreateTest(c *gin.Context) {
	var req dto.TestCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind TestCreateDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.testSvc.CreateTest(req)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetTest godoc
// @Summary (Teacher) Get one of the teacher's tests
// @Tags Teacher - Tests
// @Produce json
// @Param id path int true "Test ID"
// @Param teacher_id query int true "Teacher ID"
// @Success 200 {object} dto.TestResponse
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /teacher/tests/{id} [get]
func (ctrl *TestController) GetTest(c *gin.Context) {
	testID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	teacherID, ok := controller.ParseIDQuery(c, "teacher_id")
	if !ok {
		return
	}

	resp, err := ctrl.testSvc.GetTest(testID, teacherID)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateQuestion godoc
// @Summary (Teacher) Add a question to the question bank
// @Tags Teacher - Questions
// @Accept json
// @Produce json
// @Param question body dto.QuestionBankCreateDTO true "Question with four A-D choices, exactly one correct"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed choices"
// @Router /teacher/questions [post]
func (ctrl *TestController) CreateQuestion(c *gin.Context) {
	var req dto.QuestionBankCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind QuestionBankCreateDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.testSvc.CreateQuestion(req)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListQuestions godoc
// @Summary (Teacher) List the teacher's question bank
// @Tags Teacher - Questions
// @Produce json
// @Param teacher_id query int true "Teacher ID"
// @Success 200 {array} dto.QuestionResponse
// @Router /teacher/questions [get]
func (ctrl *TestController) ListQuestions(c *gin.Context) {
	teacherID, ok := controller.ParseIDQuery(c, "teacher_id")
	if !ok {
		return
	}

	resp, err := ctrl.testSvc.ListQuestions(teacherID)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteQuestion godoc
// @Summary (Teacher) Retire a question from the bank
// @Description Deactivates the question in the bank; tests already embedding it are unaffected.
// @Tags Teacher - Questions
// @Produce json
// @Param id path int true "Question ID"
// @Param teacher_id query int true "Teacher ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /teacher/questions/{id} [delete]
func (ctrl *TestController) DeleteQuestion(c *gin.Context) {
	questionID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	teacherID, ok := controller.ParseIDQuery(c, "teacher_id")
	if !ok {
		return
	}

	if err := ctrl.testSvc.DeleteQuestion(questionID, teacherID); err != nil {
		controller.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTests godoc
// @Summary (Teacher) List the teacher's tests
// @Tags Teacher - Tests
// @Produce json
// @Param teacher_id query int true "Teacher ID"
// @Success 200 {array} dto.TestResponse
// @Router /teacher/tests [get]
func (ctrl *TestController) ListTests(c *gin.Context) {
	teacherID, ok := controller.ParseIDQuery(c, "teacher_id")
	if !ok {
		return
	}

	resp, err := ctrl.testSvc.ListTests(teacherID)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
