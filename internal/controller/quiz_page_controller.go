package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"snowpro_quiz_backend/internal/middleware"
	"snowpro_quiz_backend/internal/model"
	"snowpro_quiz_backend/internal/service"
	"snowpro_quiz_backend/internal/util"
)

// QuizPageController 服务端渲染的测验页。
// 每次交互（勾选、翻页、判分、标记、重置）提交整页表单，
// 先对当前页对账，再执行动作，最后 303 回 GET 渲染（一次性标志保证刷新安全）。
type QuizPageController struct {
	Service *service.QuizService
}

func NewQuizPageController(svc *service.QuizService) *QuizPageController {
	return &QuizPageController{Service: svc}
}

// Show 渲染当前页
func (c *QuizPageController) Show(ctx *gin.Context) {
	sess := middleware.SessionFromContext(ctx)
	page, err := c.Service.BuildPage(sess, middleware.CurrentUser(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "quiz.html", page)
}

// Submit 处理整页表单：先对账当前页勾选，再按 action 执行动作
func (c *QuizPageController) Submit(ctx *gin.Context) {
	sess := middleware.SessionFromContext(ctx)
	user := middleware.CurrentUser(ctx)

	if err := ctx.Request.ParseForm(); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	checked := parseCheckedForm(ctx.Request.PostForm)

	if err := c.Service.ReconcilePage(sess, user, checked); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	action := ctx.PostForm("action")
	switch {
	case action == "previous":
		c.Service.Previous(sess)
	case action == "next":
		if err := c.Service.Next(sess); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	case action == "reset":
		if err := c.Service.Reset(sess, user); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	case strings.HasPrefix(action, "show:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(action, "show:"), 10, 64)
		if err != nil {
			util.BadRequest(ctx, "invalid question id")
			return
		}
		verdict, err := c.Service.Grade(id, checked[id])
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		sess.SetVerdict(verdict)
	case strings.HasPrefix(action, "flag:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(action, "flag:"), 10, 64)
		if err != nil {
			util.BadRequest(ctx, "invalid question id")
			return
		}
		if err := c.Service.Flag(id, user); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}

	ctx.Redirect(http.StatusSeeOther, "/")
}

// parseCheckedForm 从整页表单取勾选：字段名 q<question_id>，值是标签。
// 浏览器不提交未勾选的 checkbox，没出现的题在 map 里就是空集。
func parseCheckedForm(form map[string][]string) map[int64]model.LabelSet {
	checked := make(map[int64]model.LabelSet)
	for key, values := range form {
		if !strings.HasPrefix(key, "q") {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(key, "q"), 10, 64)
		if err != nil {
			continue
		}
		labels := make([]model.Label, 0, len(values))
		for _, v := range values {
			labels = append(labels, model.Label(v))
		}
		checked[id] = model.NewLabelSet(labels...)
	}
	return checked
}
