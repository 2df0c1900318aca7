package lsp

import (
	"fmt"
	"runtime/debug"

	"github.com/DFOP-HD/artic-lsp/internal/log"
	"github.com/DFOP-HD/artic-lsp/lsp/methods/workspace"
	"github.com/DFOP-HD/artic-lsp/lsp/types"
	"github.com/tliron/glsp"
)

// method wraps an LSP handler that returns (result, error) with panic
// recovery and request logging, grounded on the teacher's lsp/middleware.go.
// Every handler passes through here exactly once, which is what makes
// spec.md §7's "Every handler wraps its body so that a thrown
// request-error becomes an LSP error response and the loop continues" true
// without repeating the recover() in each handler.
func method[P, R any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) (R, error),
) func(*glsp.Context, P) (R, error) {
	return func(glspCtx *glsp.Context, params P) (result R, err error) {
		defer func() {
			if r := recover(); r != nil {
				stackTrace := string(debug.Stack())
				log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, stackTrace)
				workspace.LogError(glspCtx, "Internal error in %s: %v", methodName, r)
				err = fmt.Errorf("internal error in %s", methodName)
				var zero R
				result = zero
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, glspCtx)
		result, err = handler(req, params)

		if err == nil && req.HasWarnings() {
			for _, w := range req.Warnings() {
				workspace.LogWarning(glspCtx, "%s warning: %v", methodName, w)
			}
		}

		if err != nil {
			log.Error("%s error: %v", methodName, err)
			workspace.LogError(glspCtx, "%s: %v", methodName, err)
			return result, fmt.Errorf("%s: %w", methodName, err)
		}

		log.Debug("%s completed successfully", methodName)
		return result, nil
	}
}

// notify wraps an LSP notification handler that returns only error.
func notify[P any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) error,
) func(*glsp.Context, P) error {
	return func(glspCtx *glsp.Context, params P) (err error) {
		defer func() {
			if r := recover(); r != nil {
				stackTrace := string(debug.Stack())
				log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, stackTrace)
				workspace.LogError(glspCtx, "Internal error in %s: %v", methodName, r)
				err = fmt.Errorf("internal error in %s", methodName)
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, glspCtx)
		err = handler(req, params)

		if err == nil && req.HasWarnings() {
			for _, w := range req.Warnings() {
				workspace.LogWarning(glspCtx, "%s warning: %v", methodName, w)
			}
		}

		if err != nil {
			log.Error("%s error: %v", methodName, err)
			workspace.LogError(glspCtx, "%s: %v", methodName, err)
			return fmt.Errorf("%s: %w", methodName, err)
		}

		log.Debug("%s completed successfully", methodName)
		return nil
	}
}

// noParam wraps an LSP handler that takes no params, e.g. Shutdown.
func noParam(
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext) error,
) func(*glsp.Context) error {
	return func(glspCtx *glsp.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				stackTrace := string(debug.Stack())
				log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, stackTrace)
				workspace.LogError(glspCtx, "Internal error in %s: %v", methodName, r)
				err = fmt.Errorf("internal error in %s", methodName)
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, glspCtx)
		err = handler(req)

		if err == nil && req.HasWarnings() {
			for _, w := range req.Warnings() {
				workspace.LogWarning(glspCtx, "%s warning: %v", methodName, w)
			}
		}

		if err != nil {
			log.Error("%s error: %v", methodName, err)
			workspace.LogError(glspCtx, "%s: %v", methodName, err)
			return fmt.Errorf("%s: %w", methodName, err)
		}

		log.Debug("%s completed successfully", methodName)
		return nil
	}
}
