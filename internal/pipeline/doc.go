// Package pipeline turns record files into written documents.
//
// Each record file passes through a sequence of steps: load, mode
// resolution, assembly, rendering and, optionally, history. Each step
// receives the Result accumulated so far and adds to it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. The CLI can leave out steps (history with --no-history) without
// changing the others
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between steps
//
// BatchProcessor runs one pipeline per record file with concurrency control
// using errgroup.
package pipeline
