package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/veritas-labs/veritas/internal/inference"
)

// Prints the input and output tensors of each ONNX model given as argument.
func main() {
	os.Exit(run())
}

func run() int {
	libPath := flag.String("ort", "models/libonnxruntime.so", "path to the ONNX Runtime shared library")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: inspector [-ort lib] model.onnx [model.onnx...]")
		return 2
	}

	if err := inference.InitRuntime(*libPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer inference.ShutdownRuntime()

	failed := false
	for _, path := range flag.Args() {
		inputs, outputs, err := inference.Inspect(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Printf("--- %s ---\n", path)
		for _, in := range inputs {
			fmt.Printf("Input:  %s %v\n", in.Name, in.Dimensions)
		}
		for _, out := range outputs {
			fmt.Printf("Output: %s %v\n", out.Name, out.Dimensions)
		}
	}
	if failed {
		return 1
	}
	return 0
}
