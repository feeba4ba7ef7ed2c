package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/atricore/uma-authz/model"
)

func TestRunExecutesStepsInOrder(t *testing.T) {
	executed := []string{}
	step := func(name string) Step {
		return Step{Name: name, Run: func() (bool, model.UmaError) {
			executed = append(executed, name)
			return true, model.UmaError{}
		}}
	}

	umaErr := Run("ordered", []Step{step("first"), step("second"), step("third")})

	if umaErr != (model.UmaError{}) {
		t.Errorf("A clean run should not return an error, but got %v.", umaErr)
	}
	if diff := cmp.Diff([]string{"first", "second", "third"}, executed); diff != "" {
		t.Errorf("Steps did not run in order. Diff: %s", diff)
	}
}

func TestRunShortCircuitsOnError(t *testing.T) {
	expectedErr := model.NewUmaError(model.InvalidClient, "Client credentials are invalid")
	executed := []string{}

	umaErr := Run("failing", []Step{
		{Name: "first", Run: func() (bool, model.UmaError) {
			executed = append(executed, "first")
			return true, model.UmaError{}
		}},
		{Name: "failing", Run: func() (bool, model.UmaError) {
			executed = append(executed, "failing")
			return false, expectedErr
		}},
		{Name: "unreached", Run: func() (bool, model.UmaError) {
			executed = append(executed, "unreached")
			return true, model.UmaError{}
		}},
	})

	if umaErr != expectedErr {
		t.Errorf("The step error should be handed back unchanged. Expected: %v, Actual: %v", expectedErr, umaErr)
	}
	if diff := cmp.Diff([]string{"first", "failing"}, executed); diff != "" {
		t.Errorf("Steps behind a failing step must not run. Diff: %s", diff)
	}
}

func TestRunStopsWithoutErrorWhenStepDoesNotProceed(t *testing.T) {
	executed := []string{}

	umaErr := Run("stopping", []Step{
		{Name: "response", Run: func() (bool, model.UmaError) {
			executed = append(executed, "response")
			return false, model.UmaError{}
		}},
		{Name: "unreached", Run: func() (bool, model.UmaError) {
			executed = append(executed, "unreached")
			return true, model.UmaError{}
		}},
	})

	if umaErr != (model.UmaError{}) {
		t.Errorf("Stopping cleanly should not return an error, but got %v.", umaErr)
	}
	if diff := cmp.Diff([]string{"response"}, executed); diff != "" {
		t.Errorf("Steps behind a stopping step must not run. Diff: %s", diff)
	}
}
