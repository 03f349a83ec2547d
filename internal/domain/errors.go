package domain

import "errors"

var (
	ErrAppNotFound        = errors.New("app not found")
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrPluginNotFound     = errors.New("plugin not found")
)
