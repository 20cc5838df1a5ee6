package server

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	invalidRequestCode = "INVALID_REQUEST"
	storageFailedCode  = "STORAGE_FAILED"
	previewFailedCode  = "PREVIEW_FAILED"
	workspaceErrorCode = "WORKSPACE_ERROR"
)

func wrapRequestError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid request body").
		WithTextCode(invalidRequestCode)
}

func wrapStorageError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "proof storage failed").
		WithTextCode(storageFailedCode)
}

func wrapPreviewError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "preview rendering failed").
		WithTextCode(previewFailedCode)
}

func wrapWorkspaceError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "workspace scan failed").
		WithTextCode(workspaceErrorCode)
}
