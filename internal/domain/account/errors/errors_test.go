package errors

import "testing"

func TestPredicatesMatchWrappedErrors(t *testing.T) {
	if !IsInvalidArgument(NewInvalidArgument("email")) {
		t.Fatal("wrapped invalid argument not recognized")
	}
	if !IsInternal(WrapInternal(ErrNotFound, "ctx")) {
		t.Fatal("wrapped internal not recognized")
	}
	if IsNotFound(ErrAlreadyExists) {
		t.Fatal("unrelated sentinel matched")
	}
	if !IsResetTokenInvalid(ErrResetTokenInvalid) || !IsTokenExpired(ErrTokenExpired) {
		t.Fatal("sentinel self-match failed")
	}
}
