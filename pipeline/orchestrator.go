package pipeline

import (
	"context"
	"fmt"
)

const managerName = "ContentManager"

// Outcome is what a finished run returns.
type Outcome struct {
	Output    Payload
	Log       []string
	Simulated bool
}

// Orchestrator runs its steps strictly in order, feeding each output to the next.
type Orchestrator struct {
	run   *RunContext
	steps []Step
}

func NewOrchestrator(run *RunContext, steps ...Step) *Orchestrator {
	return &Orchestrator{run: run, steps: steps}
}

// Steps returns the step names in execution order.
func (o *Orchestrator) Steps() []string {
	names := make([]string, 0, len(o.steps))
	for _, s := range o.steps {
		names = append(names, s.Name())
	}
	return names
}

// Run stamps topic into the run context and executes every step. A step error
// aborts the run; the log collected so far is still returned.
func (o *Orchestrator) Run(ctx context.Context, topic string) (Outcome, error) {
	o.run.Log(managerName, "Starting professional content workflow with input: "+topic)
	o.run.SetTopic(topic)

	current := Payload{Text: topic}
	for i, step := range o.steps {
		o.run.Log(managerName, fmt.Sprintf("Phase %d: Delegating to %s (%s)", i+1, step.Name(), truncateRunes(step.Persona(), 50)))
		out, err := step.Run(ctx, current)
		if err != nil {
			o.run.Log(managerName, fmt.Sprintf("Phase %d (%s) failed: %v", i+1, step.Name(), err))
			return Outcome{Log: o.run.Logs(), Simulated: o.run.IsSimulated()}, fmt.Errorf("%s: %w", step.Name(), err)
		}
		current = out
	}

	o.run.Log(managerName, "Workflow orchestration complete. Content finalized.")
	return Outcome{Output: current, Log: o.run.Logs(), Simulated: o.run.IsSimulated()}, nil
}
