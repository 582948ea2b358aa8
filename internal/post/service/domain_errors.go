package service

import (
	"net/http"

	commonerrors "github.com/akarpov/content-api/internal/common/errors"
)

var (
	ErrPostNotFound = commonerrors.NewDomainError(
		"POST_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"post not found",
	)

	ErrNotOwner = commonerrors.NewDomainError(
		"NOT_POST_OWNER",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"you can only modify your own posts",
	)
)
