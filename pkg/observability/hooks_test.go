package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Model hooks
	m := NoopModelHooks{}
	m.OnComputeStart(ctx, 10)
	m.OnComputeComplete(ctx, 10, time.Second, nil)
	m.OnTransformStart(ctx, 10)
	m.OnTransformComplete(ctx, 10, 8, time.Second, nil)

	// Store hooks
	s := NoopStoreHooks{}
	s.OnStorePut(ctx, "file", "classifier", 1024)
	s.OnStoreGet(ctx, "file", "classifier", true)
	s.OnStoreDelete(ctx, "file", "classifier")

	// Serve hooks
	h := NoopServeHooks{}
	h.OnRequest(ctx, "GET", "/models/classifier")
	h.OnResponse(ctx, "GET", "/models/classifier", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Model().(NoopModelHooks); !ok {
		t.Error("Model() should return NoopModelHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Serve().(NoopServeHooks); !ok {
		t.Error("Serve() should return NoopServeHooks by default")
	}

	// Set custom hooks
	customModel := &testModelHooks{}
	SetModelHooks(customModel)
	if Model() != customModel {
		t.Error("SetModelHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customServe := &testServeHooks{}
	SetServeHooks(customServe)
	if Serve() != customServe {
		t.Error("SetServeHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Model().(NoopModelHooks); !ok {
		t.Error("Reset() should restore NoopModelHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testModelHooks{}
	SetModelHooks(custom)

	// Setting nil should be ignored
	SetModelHooks(nil)

	if Model() != custom {
		t.Error("SetModelHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testModelHooks struct{ NoopModelHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testServeHooks struct{ NoopServeHooks }
