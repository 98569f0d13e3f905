package observability

import "testing"

func TestNoopHooksDoNotPanic(t *testing.T) {
	e := NoopEngineHooks{}
	e.OnGenerateStart(12)
	e.OnConstraints(4)
	e.OnGenerateComplete(12, 8, nil)

	tr := NoopTranslateHooks{}
	tr.OnTranslate(12, 8, 4)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Translate().(NoopTranslateHooks); !ok {
		t.Error("Translate() should return NoopTranslateHooks by default")
	}

	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customTranslate := &testTranslateHooks{}
	SetTranslateHooks(customTranslate)
	if Translate() != customTranslate {
		t.Error("SetTranslateHooks should set custom hooks")
	}

	// Nil registrations are ignored
	SetEngineHooks(nil)
	if Engine() != customEngine {
		t.Error("SetEngineHooks(nil) should keep previous hooks")
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset should restore noop engine hooks")
	}
}

func TestHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testEngineHooks{}
	SetEngineHooks(h)

	Engine().OnGenerateStart(3)
	Engine().OnConstraints(2)
	Engine().OnGenerateComplete(3, 1, nil)

	if h.starts != 1 || h.constraints != 2 || h.completes != 1 {
		t.Errorf("unexpected event counts: starts=%d constraints=%d completes=%d",
			h.starts, h.constraints, h.completes)
	}
}

type testEngineHooks struct {
	starts      int
	constraints int
	completes   int
}

func (h *testEngineHooks) OnGenerateStart(int)  { h.starts++ }
func (h *testEngineHooks) OnConstraints(n int)  { h.constraints = n }
func (h *testEngineHooks) OnGenerateComplete(int, int, error) { h.completes++ }

type testTranslateHooks struct {
	translates int
}

func (h *testTranslateHooks) OnTranslate(int, int, int) { h.translates++ }
