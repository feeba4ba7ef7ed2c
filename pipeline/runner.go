package pipeline

import (
	"github.com/atricore/uma-authz/logging"
	"github.com/atricore/uma-authz/model"
)

var logger = logging.Log()

// Step is one stage of a workflow. Steps run strictly in order against the
// workflow's shared exchange, which they capture as a closure. A step
// reports whether the pipeline should proceed to the next step; response
// steps report false unless the workflow is configured to continue after
// the response was sent.
type Step struct {
	Name string
	Run  func() (proceed bool, err model.UmaError)
}

// Run executes the steps in order. The first step that fails short-circuits
// the remaining ones and its error is handed back to the caller for
// rendering. A step that reports proceed=false ends the pipeline without an
// error. No parallelism exists inside a single pipeline, distinct pipelines
// are fully independent.
func Run(workflow string, steps []Step) model.UmaError {
	for _, step := range steps {
		proceed, err := step.Run()
		if err != (model.UmaError{}) {
			logger.Debugf("Workflow %s aborted at step %s: %s - %v.", workflow, step.Name, err.Kind, err.Message)
			return err
		}
		if !proceed {
			logger.Debugf("Workflow %s stopped after step %s.", workflow, step.Name)
			return model.UmaError{}
		}
	}
	return model.UmaError{}
}
