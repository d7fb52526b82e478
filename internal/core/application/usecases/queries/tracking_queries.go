package queries

import (
	"errors"
	"strings"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// QR image size bounds, in pixels.
const (
	DefaultQRSize = 256
	MinQRSize     = 128
	MaxQRSize     = 1024
)

var (
	ErrTrackLoadQueryIsNotConstructed = errors.New(
		"TrackLoadQuery must be created via NewTrackLoadQuery constructor",
	)
	ErrVerifyTrackingQueryIsNotConstructed = errors.New(
		"VerifyTrackingQuery must be created via NewVerifyTrackingQuery constructor",
	)
	ErrTrackingQRQueryIsNotConstructed = errors.New(
		"TrackingQRQuery must be created via NewTrackingQRQuery constructor",
	)
)

// TrackLoadQuery resolves a public tracking code: a tracking token, a load
// number or a load id. It carries no tenant; the code is the credential.
type TrackLoadQuery struct {
	code string

	guard guard.ConstructorGuard
}

func NewTrackLoadQuery(code string) (TrackLoadQuery, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return TrackLoadQuery{}, errs.NewValueIsRequiredError("tracking code")
	}
	return TrackLoadQuery{code: code, guard: guard.NewConstructorGuard()}, nil
}

func (q TrackLoadQuery) Validate() error {
	return q.guard.Validate(ErrTrackLoadQueryIsNotConstructed)
}

func (q TrackLoadQuery) Code() string { return q.code }

// VerifyTrackingQuery proves a visitor knows the customer's email.
type VerifyTrackingQuery struct {
	code  string
	email string

	guard guard.ConstructorGuard
}

func NewVerifyTrackingQuery(code, email string) (VerifyTrackingQuery, error) {
	var problems []error
	if strings.TrimSpace(code) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("tracking code"))
	}
	if strings.TrimSpace(email) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("email"))
	}
	if err := errors.Join(problems...); err != nil {
		return VerifyTrackingQuery{}, err
	}
	return VerifyTrackingQuery{
		code:  strings.TrimSpace(code),
		email: email,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q VerifyTrackingQuery) Validate() error {
	return q.guard.Validate(ErrVerifyTrackingQueryIsNotConstructed)
}

// TrackingQRQuery renders the public tracking link of a load as a PNG.
type TrackingQRQuery struct {
	code string
	size int

	guard guard.ConstructorGuard
}

// NewTrackingQRQuery uses DefaultQRSize when size is zero.
func NewTrackingQRQuery(code string, size int) (TrackingQRQuery, error) {
	var problems []error
	if strings.TrimSpace(code) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("tracking code"))
	}
	if size == 0 {
		size = DefaultQRSize
	}
	if size < MinQRSize || size > MaxQRSize {
		problems = append(problems, errs.NewValueIsOutOfRangeError("size", size, MinQRSize, MaxQRSize))
	}
	if err := errors.Join(problems...); err != nil {
		return TrackingQRQuery{}, err
	}
	return TrackingQRQuery{code: strings.TrimSpace(code), size: size, guard: guard.NewConstructorGuard()}, nil
}

func (q TrackingQRQuery) Validate() error {
	return q.guard.Validate(ErrTrackingQRQueryIsNotConstructed)
}
