package pipeline

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/gaurav-prasanna/notionpipe/core"
)

const (
	codeMissingDatabaseID = "SYNC_MISSING_DATABASE_ID"
	codeAuthFailed        = "SYNC_AUTH_FAILED"
	codeListFailed        = "SYNC_LIST_FAILED"
	codePageFailed        = "SYNC_PAGE_FAILED"
	codeRootFailed        = "SYNC_ROOT_FAILED"
	codeCanceled          = "SYNC_CANCELED"
)

func wrapConfigError(err error, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	code := codeMissingDatabaseID
	if errors.Is(err, core.ErrMissingCredentials) {
		code = codeAuthFailed
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(code)
}

func wrapListError(err error, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, core.ErrMissingCredentials) || errors.Is(err, core.ErrMissingDatabaseID) {
		return wrapConfigError(err, message)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapCanceled(err)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(codeListFailed)
}

func wrapPageError(err error, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(codePageFailed)
}

func wrapRootError(err error, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryOperation, message).WithTextCode(codeRootFailed)
}

func wrapCanceled(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "sync cancelled").WithTextCode(codeCanceled)
}
