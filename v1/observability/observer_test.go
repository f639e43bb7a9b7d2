package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMultiFansOut(t *testing.T) {
	var a, b []OperationContext
	obs := Multi(
		ObserverFunc(func(ctx OperationContext) { a = append(a, ctx) }),
		nil,
		ObserverFunc(func(ctx OperationContext) { b = append(b, ctx) }),
	)

	op := OperationContext{
		Component: "index",
		Operation: "upsert",
		Resource:  "files",
		Duration:  time.Millisecond,
		Error:     errors.New("boom"),
		Size:      3,
	}
	obs.ObserveOperation(op)

	assert.Equal(t, []OperationContext{op}, a)
	assert.Equal(t, []OperationContext{op}, b)
}

func TestMultiWithNothingIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		Multi().ObserveOperation(OperationContext{Component: "x"})
	})
}
