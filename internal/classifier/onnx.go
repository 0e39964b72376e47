package classifier

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"imgclassd/internal/common/fsutil"
	"imgclassd/internal/preprocess"
)

// ONNXOptions configures an ONNXModel. Backend selection is explicit: no
// environment variables are consulted.
type ONNXOptions struct {
	ModelPath      string
	LabelsPath     string
	InputName      string
	OutputName     string
	Device         string // "cpu" or "cuda"
	IntraOpThreads int
	// InputShape is the shape the preprocessor produces; it must agree with
	// the metadata input_shape and image_size when those are present.
	// Dynamic (-1) dims become 1.
	InputShape []int64
	// LibraryPath points at the onnxruntime shared library; empty uses the
	// platform default search.
	LibraryPath string
}

// ONNXModel runs a classifier through onnxruntime. Input and output tensors
// are allocated once and reused, so Predict holds a mutex for the duration
// of a run.
type ONNXModel struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	inputShape   []int64
	labels       []string
}

var ortInitMu sync.Mutex

func initEnvironment(libPath string) error {
	ortInitMu.Lock()
	defer ortInitMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	return nil
}

// NewONNXModel loads the model and its label table and prepares a session.
func NewONNXModel(opts ONNXOptions) (*ONNXModel, error) {
	modelPath, err := fsutil.ExpandHome(opts.ModelPath)
	if err != nil {
		return nil, err
	}
	if !fsutil.PathExists(modelPath) {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}
	if opts.LabelsPath == "" {
		return nil, fmt.Errorf("labels path is required for %s", modelPath)
	}
	labelsPath, err := fsutil.ExpandHome(opts.LabelsPath)
	if err != nil {
		return nil, err
	}
	md, err := LoadLabels(labelsPath)
	if err != nil {
		return nil, err
	}
	if len(md.Classes) == 0 {
		return nil, fmt.Errorf("label table %s is empty", labelsPath)
	}

	inShape := opts.InputShape
	if len(inShape) == 0 {
		inShape = md.InputShape
	}
	if len(inShape) == 0 {
		return nil, fmt.Errorf("input shape unknown: set it in config or in %s", labelsPath)
	}
	inShape = concreteShape(inShape)
	if err := md.CheckInput(inShape); err != nil {
		return nil, err
	}
	outShape := concreteShape(md.OutputShape)
	if len(outShape) == 0 {
		outShape = []int64{1, int64(len(md.Classes))}
	}

	if err := initEnvironment(opts.LibraryPath); err != nil {
		return nil, err
	}

	sessOpts, err := sessionOptions(opts)
	if err != nil {
		return nil, err
	}
	defer sessOpts.Destroy()

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(inShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(outShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{opts.InputName}, []string{opts.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		sessOpts)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXModel{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		inputShape:   inShape,
		labels:       md.Classes,
	}, nil
}

func sessionOptions(opts ONNXOptions) (*ort.SessionOptions, error) {
	so, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("session options: %w", err)
	}
	if opts.IntraOpThreads > 0 {
		if err := so.SetIntraOpNumThreads(opts.IntraOpThreads); err != nil {
			so.Destroy()
			return nil, fmt.Errorf("set intra-op threads: %w", err)
		}
	}
	if opts.Device == "cuda" {
		cuda, err := ort.NewCUDAProviderOptions()
		if err != nil {
			so.Destroy()
			return nil, fmt.Errorf("cuda provider options: %w", err)
		}
		defer cuda.Destroy()
		if err := so.AppendExecutionProviderCUDA(cuda); err != nil {
			so.Destroy()
			return nil, fmt.Errorf("enable cuda provider: %w", err)
		}
	}
	return so, nil
}

func concreteShape(s []int64) []int64 {
	out := make([]int64, len(s))
	for i, d := range s {
		if d <= 0 {
			d = 1
		}
		out[i] = d
	}
	return out
}

// ONNXLoader returns a Loader that builds an ONNXModel from opts.
func ONNXLoader(opts ONNXOptions) Loader {
	return func(ctx context.Context) (Model, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewONNXModel(opts)
	}
}

func (m *ONNXModel) InputShape() []int64 { return append([]int64(nil), m.inputShape...) }

func (m *ONNXModel) Labels() []string { return m.labels }

func (m *ONNXModel) Predict(ctx context.Context, t *preprocess.Tensor) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	in := m.inputTensor.GetData()
	if len(in) != len(t.Data) {
		return nil, &InferenceError{Msg: fmt.Sprintf("expected %d values, got %d", len(in), len(t.Data))}
	}
	copy(in, t.Data)
	if err := m.session.Run(); err != nil {
		return nil, &InferenceError{Msg: "session run", Err: err}
	}
	out := m.outputTensor.GetData()
	scores := make([]float32, len(out))
	copy(scores, out)
	return scores, nil
}

func (m *ONNXModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inputTensor != nil {
		m.inputTensor.Destroy()
		m.inputTensor = nil
	}
	if m.outputTensor != nil {
		m.outputTensor.Destroy()
		m.outputTensor = nil
	}
	if m.session != nil {
		if err := m.session.Destroy(); err != nil {
			return err
		}
		m.session = nil
	}
	return nil
}

// ShutdownRuntime tears down the onnxruntime environment. Call once at exit
// after every ONNXModel is closed.
func ShutdownRuntime() error {
	ortInitMu.Lock()
	defer ortInitMu.Unlock()
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}
