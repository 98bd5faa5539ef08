package css

import (
	"io"
	"log/slog"
	"os"
)

type Tracer interface {
	Enter(string)
	Leave(string)
	Match(Step, Node)
	Error(string, error)
}

func NoopTracer() Tracer {
	return discardTracer{}
}

type discardTracer struct{}

func (_ discardTracer) Enter(_ string)          {}
func (_ discardTracer) Leave(_ string)          {}
func (_ discardTracer) Match(_ Step, _ Node)    {}
func (_ discardTracer) Error(_ string, _ error) {}

type stdioTracer struct {
	logger *slog.Logger
	depth  int
}

func TraceStdout() Tracer {
	return TraceWriter(os.Stdout)
}

func TraceStderr() Tracer {
	return TraceWriter(os.Stderr)
}

func TraceWriter(w io.Writer) Tracer {
	opts := slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	tracer := stdioTracer{
		logger: slog.New(slog.NewTextHandler(w, &opts)),
	}
	return &tracer
}

func (t *stdioTracer) Enter(rule string) {
	t.depth++
	t.logger.Debug("start rule", "rule", rule, "depth", t.depth)
}

func (t *stdioTracer) Leave(rule string) {
	t.logger.Debug("done rule", "rule", rule, "depth", t.depth)
	t.depth--
}

func (t *stdioTracer) Match(step Step, node Node) {
	args := []any{
		"step",
		step.String(),
		"node",
		node.Name(),
	}
	t.logger.Debug("candidate accepted", args...)
}

func (t *stdioTracer) Error(rule string, err error) {
	t.logger.Error("rule failed", "rule", rule, "depth", t.depth, "err", err.Error())
}
