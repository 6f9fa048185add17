// Package inference runs the exported face detector and deepfake classifier
// graphs through ONNX Runtime and implements the pre/post-processing around
// them: face cropping, frame sampling and logit-to-verdict mapping.
package inference

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// InitRuntime loads the ONNX Runtime shared library. Safe to call multiple
// times; only the first call has any effect.
func InitRuntime(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			ortEnv.err = fmt.Errorf("onnx: failed to initialize runtime: %w", err)
		}
	})
	return ortEnv.err
}

// ShutdownRuntime tears down the environment after all sessions are closed.
func ShutdownRuntime() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}
