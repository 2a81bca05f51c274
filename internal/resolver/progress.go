package resolver

// ProgressSink receives coarse-grained phase notifications during a
// resolution. Advisory only; the engine holds no presentation state and
// never blocks on the sink.
type ProgressSink interface {
	Progress(stage string)
}

// ProgressFunc adapts a plain function to a ProgressSink
type ProgressFunc func(stage string)

func (f ProgressFunc) Progress(stage string) { f(stage) }

// NopSink discards all notifications
var NopSink ProgressSink = ProgressFunc(func(string) {})
