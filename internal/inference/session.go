package inference

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// Session wraps a single-input, single-output DynamicAdvancedSession.
type Session struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	inputDims  []int64
}

// TensorInfo describes one graph input or output.
type TensorInfo struct {
	Name       string
	Dimensions []int64
}

// Inspect reads the tensor names and shapes of an ONNX file without
// creating a session. The runtime must already be initialized.
func Inspect(modelPath string) (inputs, outputs []TensorInfo, err error) {
	in, out, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	for _, i := range in {
		inputs = append(inputs, TensorInfo{Name: i.Name, Dimensions: []int64(i.Dimensions)})
	}
	for _, o := range out {
		outputs = append(outputs, TensorInfo{Name: o.Name, Dimensions: []int64(o.Dimensions)})
	}
	return inputs, outputs, nil
}

// NewSession loads modelPath and binds its first input and first output.
func NewSession(modelPath string, threads int) (*Session, error) {
	inputs, outputs, err := Inspect(modelPath)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("onnx: %s has no inputs", modelPath)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: %s has no outputs", modelPath)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	if threads > 0 {
		if err := opts.SetIntraOpNumThreads(threads); err != nil {
			return nil, fmt.Errorf("onnx: failed to set threads: %w", err)
		}
	}
	if err := opts.SetInterOpNumThreads(1); err != nil {
		return nil, fmt.Errorf("onnx: failed to set threads: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session for %s: %w", modelPath, err)
	}

	return &Session{
		session:    session,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
		inputDims:  inputs[0].Dimensions,
	}, nil
}

// Run feeds a flat float32 tensor of the given shape and returns the flat
// output together with its shape. The output tensor is allocated by the
// runtime so graphs with dynamic output sizes work.
func (s *Session) Run(data []float32, shape ...int64) ([]float32, []int64, error) {
	input, err := ort.NewTensor(ort.NewShape(shape...), data)
	if err != nil {
		return nil, nil, fmt.Errorf("onnx: failed to create %s tensor: %w", s.inputName, err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, nil, fmt.Errorf("onnx: inference failed: %w", err)
	}
	defer outputs[0].Destroy()

	tensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, nil, fmt.Errorf("onnx: output %s is not a float32 tensor", s.outputName)
	}

	// Copy data out before tensor is destroyed.
	src := tensor.GetData()
	result := make([]float32, len(src))
	copy(result, src)
	return result, []int64(tensor.GetShape()), nil
}

func (s *Session) Close() error {
	if s == nil || s.session == nil {
		return nil
	}
	return s.session.Destroy()
}
