package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories the HTTP layer knows how
// to render. Every error returned by a service is either a *Error carrying one
// of these kinds or is treated as KindInternal.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindInvalidInput
	KindConflict
	KindUnavailable
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInvalidQuantity       = "INVALID_QUANTITY"
	CodeInvalidPrice          = "INVALID_PRICE"
	CodeBasketNotFound        = "BASKET_NOT_FOUND"
	CodeBasketItemNotFound    = "BASKET_ITEM_NOT_FOUND"
	CodeResourceNotFound      = "RESOURCE_NOT_FOUND"
	CodeOrderNotFound         = "ORDER_NOT_FOUND"
	CodeInvalidTransition     = "INVALID_STATUS_TRANSITION"
	CodeOrderNotCancellable   = "ORDER_NOT_CANCELLABLE"
	CodeEmptyOrder            = "EMPTY_ORDER"
	CodeInvalidUserID         = "INVALID_USER_ID"
	CodeMissingAddressField   = "MISSING_ADDRESS_FIELD"
	CodeForeignKeyViolation   = "FOREIGN_KEY_VIOLATION"
	CodeDuplicateResource     = "DUPLICATE_RESOURCE"
	CodeResourceHasDependents = "RESOURCE_HAS_DEPENDENCIES"
	CodeOrderNumberCollision  = "ORDER_NUMBER_COLLISION"
	CodeCacheError            = "CACHE_ERROR"
	CodeDatabaseError         = "DATABASE_ERROR"
	CodeStoreUnavailable      = "STORE_UNAVAILABLE"
	CodeStoreTimeout          = "STORE_TIMEOUT"
	CodeInternal              = "INTERNAL_ERROR"
)

type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by code so callers can compare against the
// exported sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrBasketNotFound        = &Error{Kind: KindNotFound, Code: CodeBasketNotFound}
	ErrBasketItemNotFound    = &Error{Kind: KindNotFound, Code: CodeBasketItemNotFound}
	ErrResourceNotFound      = &Error{Kind: KindNotFound, Code: CodeResourceNotFound}
	ErrOrderNotFound         = &Error{Kind: KindNotFound, Code: CodeOrderNotFound}
	ErrInvalidTransition     = &Error{Kind: KindInvalidInput, Code: CodeInvalidTransition}
	ErrOrderNotCancellable   = &Error{Kind: KindInvalidInput, Code: CodeOrderNotCancellable}
	ErrEmptyOrder            = &Error{Kind: KindInvalidInput, Code: CodeEmptyOrder}
	ErrInvalidUserID         = &Error{Kind: KindInvalidInput, Code: CodeInvalidUserID}
	ErrMissingAddressField   = &Error{Kind: KindInvalidInput, Code: CodeMissingAddressField}
	ErrForeignKeyViolation   = &Error{Kind: KindInvalidInput, Code: CodeForeignKeyViolation}
	ErrDuplicateResource     = &Error{Kind: KindConflict, Code: CodeDuplicateResource}
	ErrResourceHasDependents = &Error{Kind: KindConflict, Code: CodeResourceHasDependents}
	ErrOrderNumberCollision  = &Error{Kind: KindConflict, Code: CodeOrderNumberCollision}
)

// KindOf reports the kind of err, defaulting to KindInternal for errors that
// did not come through the taxonomy.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func NewInvalidInput(message string, details map[string]any) *Error {
	return &Error{Kind: KindInvalidInput, Code: CodeInvalidInput, Message: message, Details: details}
}

func NewValidationError(message string, details map[string]any) *Error {
	return &Error{Kind: KindInvalidInput, Code: CodeValidation, Message: message, Details: details}
}

func NewInvalidQuantity(quantity int) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Code:    CodeInvalidQuantity,
		Message: fmt.Sprintf("Quantity '%d' is invalid. Quantity must be between 1 and %d.", quantity, MaxItemQuantity),
		Details: map[string]any{"quantity": quantity},
	}
}

func NewInvalidPrice(price string) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Code:    CodeInvalidPrice,
		Message: fmt.Sprintf("Price '%s' is invalid.", price),
		Details: map[string]any{"price": price},
	}
}

func NewBasketNotFound(userID string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeBasketNotFound,
		Message: fmt.Sprintf("Basket for user '%s' was not found.", userID),
		Details: map[string]any{"userId": userID},
	}
}

func NewBasketItemNotFound(userID string, productID int) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeBasketItemNotFound,
		Message: fmt.Sprintf("Item with product id '%d' was not found in the basket for user '%s'.", productID, userID),
		Details: map[string]any{"userId": userID, "productId": productID},
	}
}

func NewResourceNotFound(resourceType string, id any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeResourceNotFound,
		Message: fmt.Sprintf("%s with id '%v' was not found.", resourceType, id),
		Details: map[string]any{"resourceType": resourceType, "resourceId": id},
	}
}

func NewOrderNotFound(id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeOrderNotFound,
		Message: fmt.Sprintf("Order with id '%s' was not found.", id),
		Details: map[string]any{"orderId": id},
	}
}

func NewInvalidTransition(from, to OrderStatus) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("Cannot change order status from %s to %s", from, to),
		Details: map[string]any{"currentStatus": from.String(), "targetStatus": to.String()},
	}
}

func NewOrderNotCancellable(current OrderStatus) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Code:    CodeOrderNotCancellable,
		Message: fmt.Sprintf("Cannot cancel order with status %s. Only Pending or Confirmed orders can be cancelled.", current),
		Details: map[string]any{"currentStatus": current.String()},
	}
}

func NewEmptyOrder() *Error {
	return &Error{Kind: KindInvalidInput, Code: CodeEmptyOrder, Message: "Order must have at least one item."}
}

func NewInvalidUserID(userID string) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Code:    CodeInvalidUserID,
		Message: "User id is required.",
		Details: map[string]any{"userId": userID},
	}
}

func NewMissingAddressField(field string) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Code:    CodeMissingAddressField,
		Message: fmt.Sprintf("Shipping address field '%s' is required.", field),
		Details: map[string]any{"field": field},
	}
}

func NewForeignKeyViolation(resourceType, referencedType string, referencedID any) *Error {
	return &Error{
		Kind: KindInvalidInput,
		Code: CodeForeignKeyViolation,
		Message: fmt.Sprintf("Cannot perform operation on %s. Referenced %s with id '%v' does not exist or is invalid.",
			resourceType, referencedType, referencedID),
		Details: map[string]any{
			"resourceType":           resourceType,
			"referencedResourceType": referencedType,
			"referencedResourceId":   referencedID,
		},
	}
}

func NewDuplicateResource(resourceType, field string, value any) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    CodeDuplicateResource,
		Message: fmt.Sprintf("A %s with %s '%v' already exists.", resourceType, field, value),
		Details: map[string]any{"resourceType": resourceType, "propertyName": field, "propertyValue": value},
	}
}

func NewResourceHasDependents(resourceType string, id any, dependentType string) *Error {
	return &Error{
		Kind: KindConflict,
		Code: CodeResourceHasDependents,
		Message: fmt.Sprintf("Cannot delete %s with id '%v' because it has related %s.",
			resourceType, id, dependentType),
		Details: map[string]any{
			"resourceType":          resourceType,
			"resourceId":            id,
			"dependentResourceType": dependentType,
		},
	}
}

func NewOrderNumberCollision(orderNumber string, err error) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    CodeOrderNumberCollision,
		Message: fmt.Sprintf("Order number '%s' is already in use. Please retry.", orderNumber),
		Details: map[string]any{"orderNumber": orderNumber},
		Err:     err,
	}
}

// NewStoreError wraps a driver failure. kind decides the HTTP status, code
// names the store family (CACHE_ERROR, DATABASE_ERROR, ...).
func NewStoreError(kind ErrorKind, code, operation string, err error) *Error {
	msg := "A storage error occurred. Please try again later."
	switch kind {
	case KindUnavailable:
		msg = "The storage service is temporarily unavailable."
	case KindTimeout:
		msg = "The storage service did not respond in time."
	}
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: msg,
		Details: map[string]any{"operation": operation},
		Err:     err,
	}
}

func NewInternal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "An internal server error occurred.", Err: err}
}
