package recipe_test

import (
	"fmt"

	"github.com/go-thermo/thermostate"
	"github.com/go-thermo/thermostate/recipe"
)

// We demonstrate how to use the Recorder to capture and replay state writes,
// including encoding and decoding the steps for transmission across process
// boundaries.
func ExampleRecorder() {
	var recorder recipe.Recorder

	fmt.Println("Recording steps:")
	recorder.SetAuxiliary("water")
	recorder.Set(thermostate.TempK, 373.15)
	recorder.Set(thermostate.Press, 101325)
	recorder.ResetProperty(thermostate.TempK, 400)
	recorder.Replace(thermostate.Press, thermostate.Density, 0.5)

	steps := recorder.Steps()
	fmt.Printf("Recorded %d steps\n", len(steps))

	encodedSteps, err := recipe.Encode(steps)
	if err != nil {
		panic(fmt.Sprintf("Failed to encode steps: %v", err))
	}

	// In a distributed scenario, the encoded bytes would be transmitted to another
	// process.
	fmt.Println("\nDecoding steps in receiving process:")
	decodedSteps, err := recipe.Decode(encodedSteps)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Decoded %d steps\n", len(decodedSteps))

	fmt.Println("\nReplaying decoded steps:")
	if err := recipe.Replay(decodedSteps)(PrintWriter{}); err != nil {
		panic(err)
	}

	recorder.Reset()
	fmt.Printf("\nSteps after reset: %d\n", len(recorder.Steps()))

	// Output:
	// Recording steps:
	// Recorded 5 steps
	//
	// Decoding steps in receiving process:
	// Decoded 5 steps
	//
	// Replaying decoded steps:
	// * auxiliary = "water"
	// + tempk = 373.15
	// + press = 101325
	// * tempk = 400
	// press -> density = 0.5
	//
	// Steps after reset: 0
}

// We demonstrate how Properties extracts the unique set of properties written by
// a recipe, for example to check them against a kind before replaying it.
func ExampleProperties() {
	var recorder recipe.Recorder
	recorder.Set(thermostate.Press, 101325)
	recorder.Set(thermostate.TempK, 293.15)
	recorder.Set(thermostate.RelHum, 0.5)
	recorder.ResetProperty(thermostate.TempK, 295.15) // Duplicate - but Properties yields each property only once.
	recorder.Replace(thermostate.RelHum, thermostate.HumRat, 0.007)

	for p := range recipe.Properties(recorder.Steps()) {
		fmt.Println(p)
	}

	// Output:
	// press
	// tempk
	// relhum
	// humrat
}

// A PrintWriter implements the thermostate.Writer interface by printing every
// write to stdout, making it useful for example tests.
type PrintWriter struct{}

func (PrintWriter) Set(p thermostate.Property, value any) error {
	fmt.Printf("+ %s = %v\n", p, value)
	return nil
}

func (PrintWriter) Reset(p thermostate.Property, value any) error {
	fmt.Printf("* %s = %v\n", p, value)
	return nil
}

func (PrintWriter) Replace(old, replacement thermostate.Property, value any) error {
	fmt.Printf("%s -> %s = %v\n", old, replacement, value)
	return nil
}

func (PrintWriter) SetAuxiliary(name string) error {
	fmt.Printf("* auxiliary = %q\n", name)
	return nil
}
