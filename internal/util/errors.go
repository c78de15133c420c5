package util

import "errors"

var (
	ErrQuestionNotFound = errors.New("题目不存在")
)
