package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

type registrarStub struct {
	replied []string
	err     error
}

func (s *registrarStub) RegisterReply(ctx context.Context, contactID string) error {
	if s.err != nil {
		return s.err
	}
	s.replied = append(s.replied, contactID)
	return nil
}

func TestReplyHandlerMarksReplied(t *testing.T) {
	stub := &registrarStub{}
	handler := NewReplyHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/webhook/reply", strings.NewReader(`{"contact_id":"u1"}`))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"u1"}, stub.replied)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestReplyHandlerMapsDomainErrorTo400(t *testing.T) {
	stub := &registrarStub{err: &usecase.DomainError{Code: "EMPTY_CONTACT_ID", Message: "contact_id é obrigatório"}}
	handler := NewReplyHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/webhook/reply", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "obrigatório")
}

func TestReplyHandlerMapsTechnicalErrorTo500(t *testing.T) {
	stub := &registrarStub{err: &usecase.TechnicalError{Code: "FOLLOWUP_STORE", Message: "erro ao registrar resposta"}}
	handler := NewReplyHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/webhook/reply", strings.NewReader(`{"contact_id":"u1"}`))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReplyHandlerRejectsInvalidJSON(t *testing.T) {
	handler := NewReplyHandler(&registrarStub{})

	req := httptest.NewRequest(http.MethodPost, "/webhook/reply", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
