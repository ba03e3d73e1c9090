package service

import "errors"

// Business-rule violations surfaced by the loan/return lifecycle. These are
// expected, recoverable conditions: handlers translate them into 4xx responses
// and nothing is retried automatically.
var (
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrAlreadyProcessed  = errors.New("request has already been processed")
	ErrInvalidLoanState  = errors.New("loan is not in a returnable state")
	ErrAlreadyPaid       = errors.New("fine has already been paid")
	ErrNoFineDue         = errors.New("no fine is due for this return")
	ErrReturnPending     = errors.New("a return request already exists for this loan")
	ErrInvalidDeadline   = errors.New("deadline must be after the loan date")
	ErrNotLoanOwner      = errors.New("loan does not belong to this borrower")

	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrReturnNotFound    = errors.New("return not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrKodeExists        = errors.New("equipment code already exists")
)
