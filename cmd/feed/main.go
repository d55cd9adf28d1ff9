// Package main provides the feed engine CLI.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"

	"github.com/born-ml/feed/ops"
	"github.com/born-ml/feed/pipeline"
	"github.com/born-ml/feed/tensor"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("feed %s\n", version)
			return
		case "blur":
			if err := runBlurDemo(); err != nil {
				fmt.Fprintf(os.Stderr, "blur: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("feed - batch pre-processing for training pipelines")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  blur       Blur a random uint8 batch and print a summary")
}

// runBlurDemo blurs a synthetic batch of HWC images and reports the shapes.
func runBlurDemo() error {
	rng := rand.New(rand.NewSource(42))

	samples := make([]*tensor.RawTensor, 4)
	for i := range samples {
		shape := tensor.Shape{32 + 16*i, 48, 3}
		t, err := tensor.NewRaw(shape, tensor.Uint8)
		if err != nil {
			return err
		}
		data := tensor.Values[uint8](t)
		for j := range data {
			data[j] = uint8(rng.Intn(256))
		}
		samples[i] = t
	}
	in, err := pipeline.NewBatch("HWC", samples...)
	if err != nil {
		return err
	}

	blur := ops.NewGaussianBlur(ops.WithSigma(1.5))
	runner := pipeline.NewRunner(blur, pipeline.NewPool(runtime.NumCPU()), 1)

	out, err := runner.Process(in)
	if err != nil {
		return err
	}
	for i := 0; i < out.Len(); i++ {
		fmt.Printf("sample %d: %v -> %v\n", i, in.Sample(i).Shape(), out.Sample(i).Shape())
	}
	return nil
}
