package ports

import "context"

// Engine executes a BR batch script with the external engine.
// The adapter owns helper-process startup, the engine's working directory and
// serialization of concurrent invocations. A nonzero exit or spawn failure is
// reported as an *EngineError carrying the engine's diagnostic text.
type Engine interface {
	Run(ctx context.Context, scriptPath string) error
}

// Opener hands a resolved location to whatever edits files (an editor, an IDE).
// Line is 1-based.
type Opener interface {
	Open(ctx context.Context, path string, line int) error
}
