package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestResolutionError_Error(t *testing.T) {
	err := &ResolutionError{
		Raw:  "%zz",
		Base: "https://example.com/",
		Err:  errors.New("invalid escape"),
	}

	expected := `cannot resolve "%zz" against "https://example.com/": invalid escape`
	if err.Error() != expected {
		t.Errorf("ResolutionError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestFetchError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{
			name: "status code",
			err:  &FetchError{URL: "https://example.com/a.png", StatusCode: 404},
			want: "fetch https://example.com/a.png: HTTP 404",
		},
		{
			name: "transport error",
			err:  &FetchError{URL: "https://example.com/a.png", Err: errors.New("connection refused")},
			want: "fetch https://example.com/a.png: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("FetchError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInlineError_Unwrap(t *testing.T) {
	err := &InlineError{URL: "https://example.com/icon.ico", Kind: "style", Err: ErrBinaryContent}

	if !errors.Is(err, ErrBinaryContent) {
		t.Error("InlineError should unwrap to ErrBinaryContent")
	}
	var inlineErr *InlineError
	if !errors.As(fmt.Errorf("wrapped: %w", err), &inlineErr) {
		t.Error("InlineError should be found through wrapping")
	}
}

func TestIsHelpers_False(t *testing.T) {
	err := errors.New("some other error")

	if IsResolution(err) {
		t.Error("IsResolution should return false for plain error")
	}
	if IsFetch(err) {
		t.Error("IsFetch should return false for plain error")
	}
	if IsFatal(err) {
		t.Error("IsFatal should return false for plain error")
	}
}

func TestFatal(t *testing.T) {
	if Fatal("write output", nil) != nil {
		t.Error("Fatal(nil) should return nil")
	}

	cause := errors.New("disk full")
	err := Fatal("write output", cause)
	if !IsFatal(err) {
		t.Error("Fatal should produce a FatalError")
	}
	if !errors.Is(err, cause) {
		t.Error("FatalError should unwrap to its cause")
	}
	if err.Error() != "write output: disk full" {
		t.Errorf("FatalError.Error() = %v", err.Error())
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	original := errors.New("original error")
	wrapped := WrapError(original, "context")

	if wrapped.Error() != "context: original error" {
		t.Errorf("WrapError() = %v, want 'context: original error'", wrapped.Error())
	}
	if !errors.Is(wrapped, original) {
		t.Error("Wrapped error should contain original error")
	}
}
