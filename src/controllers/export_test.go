package controllers

import "go.uber.org/zap"

// Test-only constructors for the external controllers_test package,
// which cannot set unexported fields directly.

func NewTestPostController(log *zap.Logger) *PostController {
	return &PostController{log: log}
}

func NewTestProjectController(log *zap.Logger) *ProjectController {
	return &ProjectController{log: log}
}
