package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrAuditNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "audit")
}

func NewErrAuditNotFoundByDealStage(dealID, stageID string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("audit for deal %s stage %s not found", dealID, stageID)}
}

type ErrAuditAlreadyExists struct {
	error
}

func NewErrAuditAlreadyExists(dealID, stageID string) *ErrAuditAlreadyExists {
	return &ErrAuditAlreadyExists{fmt.Errorf("an audit already exists for deal %s stage %s", dealID, stageID)}
}

type ErrAuditTerminal struct {
	error
}

func NewErrAuditTerminal(id uuid.UUID, status string) *ErrAuditTerminal {
	return &ErrAuditTerminal{fmt.Errorf("audit %s is %s and admits no further updates", id, status)}
}

type ErrInvalidForm struct {
	error
}

func NewErrInvalidForm(message string) *ErrInvalidForm {
	return &ErrInvalidForm{fmt.Errorf("bad request: %s", message)}
}
