package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestRecover_WithPanic tests the Recover function when a panic occurs
func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		panic("test panic message")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}

	if panicErr.Operation != "TestOperation" {
		t.Errorf("Expected operation 'TestOperation', got '%s'", panicErr.Operation)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}

	expectedMsg := "panic in TestOperation: test panic message"
	if panicErr.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, panicErr.Error())
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		return nil
	}

	if err := testFunc(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

// TestRecover_WithExistingError tests Recover when function has existing error and panic occurs
func TestRecover_WithExistingError(t *testing.T) {
	originalErr := fmt.Errorf("original error")

	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		err = originalErr
		panic("panic after error")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "panic in TestOperation") {
		t.Errorf("Error message should contain panic info: %s", errMsg)
	}
	if !strings.Contains(errMsg, "original error") {
		t.Errorf("Error message should contain original error: %s", errMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("Should be able to identify original error with errors.Is")
	}
}

func TestSafeExecute(t *testing.T) {
	if err := SafeExecute("ok", func() error { return nil }); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	original := fmt.Errorf("function error")
	if err := SafeExecute("fails", func() error { return original }); err != original {
		t.Fatalf("Expected original error, got: %v", err)
	}

	err := SafeExecute("panics", func() error {
		var rows [][]float64
		_ = rows[3]
		return nil
	})
	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if !strings.Contains(panicErr.String(), "Stack trace:") {
		t.Error("String() should include the stack trace")
	}
}

func TestCheckMatrix(t *testing.T) {
	type dense [][]float64
	at := func(d dense) interface{ At(int, int) float64 } { return matrixFunc(func(i, j int) float64 { return d[i][j] }) }

	if err := CheckMatrix("fit_input", at(dense{{1, 2}, {3, 4}}), 2, 2, 0); err != nil {
		t.Errorf("finite matrix reported unstable: %v", err)
	}

	nan := dense{{1, 2}, {3, nanValue()}}
	err := CheckMatrix("fit_input", at(nan), 2, 2, 0)
	var instErr *NumericalInstabilityError
	if !errors.As(err, &instErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if instErr.Operation != "fit_input" {
		t.Errorf("Operation = %s", instErr.Operation)
	}
}

func TestSigmoidStable(t *testing.T) {
	if v := Sigmoid(0); v != 0.5 {
		t.Errorf("Sigmoid(0) = %v", v)
	}
	if v := Sigmoid(-1000); v != 0 {
		t.Errorf("Sigmoid(-1000) = %v", v)
	}
	if v := Sigmoid(1000); v != 1 {
		t.Errorf("Sigmoid(1000) = %v", v)
	}
}

type matrixFunc func(i, j int) float64

func (f matrixFunc) At(i, j int) float64 { return f(i, j) }

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}
