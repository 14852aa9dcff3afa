package ai

import (
	"context"
	"errors"
	"strings"
)

// FailureClass is how the fallback chain treats a provider failure.
type FailureClass int

const (
	FailureOther FailureClass = iota
	// FailureRateLimited is retried with backoff.
	FailureRateLimited
	// FailurePermanent disables the provider for the configured window.
	FailurePermanent
	// FailureStructuredUnsupported triggers one retry without JSON mode.
	FailureStructuredUnsupported
)

func (c FailureClass) String() string {
	switch c {
	case FailureRateLimited:
		return "rate_limited"
	case FailurePermanent:
		return "permanent"
	case FailureStructuredUnsupported:
		return "structured_unsupported"
	default:
		return "other"
	}
}

// policyRule matches an error when its status is listed or its lower-cased
// message contains one of the phrases.
type policyRule struct {
	class    FailureClass
	statuses []int
	phrases  []string
}

// failurePolicy is evaluated in order by Classify. The predicates below test
// a single row, so an error may belong to more than one class (a 403 saying
// "quota" is both retried and then disabled).
var failurePolicy = []policyRule{
	{class: FailureRateLimited, statuses: []int{429}, phrases: []string{"quota", "rate"}},
	{class: FailurePermanent, statuses: []int{403}, phrases: []string{"credits"}},
	{class: FailureStructuredUnsupported, statuses: []int{400, 422}, phrases: []string{"response_format", "json_object", "response_mime_type"}},
}

func (r policyRule) matches(status int, msg string) bool {
	for _, s := range r.statuses {
		if status == s {
			return true
		}
	}
	for _, p := range r.phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// Classify returns the first policy class matching err, or FailureOther.
// Context cancellation is never classified.
func Classify(err error) FailureClass {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return FailureOther
	}
	status, msg := describe(err)
	for _, r := range failurePolicy {
		if r.matches(status, msg) {
			return r.class
		}
	}
	return FailureOther
}

func IsRateLimited(err error) bool { return is(err, FailureRateLimited) }

func IsPermanent(err error) bool { return is(err, FailurePermanent) }

func IsStructuredUnsupported(err error) bool { return is(err, FailureStructuredUnsupported) }

func is(err error, class FailureClass) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	status, msg := describe(err)
	for _, r := range failurePolicy {
		if r.class == class && r.matches(status, msg) {
			return true
		}
	}
	return false
}

// StatusCode returns the provider status carried by err, or 0.
func StatusCode(err error) int {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}

// describe extracts what the policy matches on. For a ProviderError only the
// provider-reported message is used, never transport text such as URLs.
func describe(err error) (int, string) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode, strings.ToLower(pe.Message)
	}
	return 0, strings.ToLower(err.Error())
}
