package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"snowpro_quiz_backend/internal/middleware"
	"snowpro_quiz_backend/internal/model"
	"snowpro_quiz_backend/internal/service"
	"snowpro_quiz_backend/internal/util"
)

// QuizAPIController 测验引擎的 JSON 接口，与页面共用同一套引擎操作
type QuizAPIController struct {
	Service *service.QuizService
}

func NewQuizAPIController(svc *service.QuizService) *QuizAPIController {
	return &QuizAPIController{Service: svc}
}

// AnswerRequest 勾选集合。labels 为空等价于全部取消勾选。
type AnswerRequest struct {
	Labels []string `json:"labels"`
}

func (r *AnswerRequest) labelSet() model.LabelSet {
	labels := make([]model.Label, 0, len(r.Labels))
	for _, l := range r.Labels {
		labels = append(labels, model.Label(l))
	}
	return model.NewLabelSet(labels...)
}

func questionID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return 0, false
	}
	return id, true
}

// @Summary 当前页
// @Description 当前页题目与该用户勾选的合并视图
// @Tags 测验
// @Produce json
// @Success 200 {object} util.Response{data=service.PageView}
// @Router /quiz/page [get]
func (c *QuizAPIController) GetPage(ctx *gin.Context) {
	sess := middleware.SessionFromContext(ctx)
	page, err := c.Service.BuildPage(sess, middleware.CurrentUser(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// @Summary 下一页
// @Description 已在最后一页时是 no-op
// @Tags 测验
// @Produce json
// @Success 200 {object} util.Response{data=service.PageView}
// @Router /quiz/page/next [post]
func (c *QuizAPIController) NextPage(ctx *gin.Context) {
	sess := middleware.SessionFromContext(ctx)
	if err := c.Service.Next(sess); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	c.GetPage(ctx)
}

// @Summary 上一页
// @Description 已在第一页时是 no-op
// @Tags 测验
// @Produce json
// @Success 200 {object} util.Response{data=service.PageView}
// @Router /quiz/page/previous [post]
func (c *QuizAPIController) PreviousPage(ctx *gin.Context) {
	sess := middleware.SessionFromContext(ctx)
	c.Service.Previous(sess)
	c.GetPage(ctx)
}

// @Summary 保存勾选
// @Description 与已存集合对账：有差异才写库，空集删行
// @Tags 测验
// @Accept json
// @Produce json
// @Param id path int true "题目ID"
// @Param body body AnswerRequest true "勾选的标签"
// @Success 200 {object} util.Response
// @Router /quiz/questions/{id}/answer [put]
func (c *QuizAPIController) PutAnswer(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sess := middleware.SessionFromContext(ctx)
	err := c.Service.Reconcile(sess, middleware.CurrentUser(ctx), id, req.labelSet())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 判分
// @Description 勾选集合与正确集合完全相等才算对；答错返回正确集合和参考链接
// @Tags 测验
// @Accept json
// @Produce json
// @Param id path int true "题目ID"
// @Param body body AnswerRequest true "勾选的标签"
// @Success 200 {object} util.Response{data=service.GradeResult}
// @Router /quiz/questions/{id}/grade [post]
func (c *QuizAPIController) Grade(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Grade(id, req.labelSet())
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 标记难题/错题
// @Description 追加一条记录，不去重
// @Tags 测验
// @Produce json
// @Param id path int true "题目ID"
// @Success 201 {object} util.Response
// @Router /quiz/questions/{id}/flag [post]
func (c *QuizAPIController) Flag(ctx *gin.Context) {
	id, ok := questionID(ctx)
	if !ok {
		return
	}
	err := c.Service.Flag(id, middleware.CurrentUser(ctx))
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, nil)
}

// @Summary 重置全部答案
// @Tags 测验
// @Produce json
// @Success 200 {object} util.Response
// @Router /quiz/reset [post]
func (c *QuizAPIController) Reset(ctx *gin.Context) {
	sess := middleware.SessionFromContext(ctx)
	if err := c.Service.Reset(sess, middleware.CurrentUser(ctx)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 作答进度
// @Description 已答题数与总题数
// @Tags 测验
// @Produce json
// @Success 200 {object} util.Response
// @Router /quiz/progress [get]
func (c *QuizAPIController) Progress(ctx *gin.Context) {
	sess := middleware.SessionFromContext(ctx)
	answered, total, err := c.Service.Progress(sess, middleware.CurrentUser(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"answered": answered, "total": total})
}

// @Summary 重载题库缓存
// @Description 清掉进程内题目缓存，下次渲染重新读库
// @Tags 管理
// @Produce json
// @Success 200 {object} util.Response
// @Router /admin/questions/reload [post]
func (c *QuizAPIController) ReloadQuestions(ctx *gin.Context) {
	c.Service.ReloadQuestions()
	util.Success(ctx, nil)
}
