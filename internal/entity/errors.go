package entity

import "errors"

var (
	ErrLeadNotFound     = errors.New("lead não encontrado")
	ErrFollowupNotFound = errors.New("followup não encontrado")

	// ErrTerminalStatus is returned when a write would move a followup
	// out of completed/cancelled.
	ErrTerminalStatus = errors.New("followup já está em status terminal")
)
