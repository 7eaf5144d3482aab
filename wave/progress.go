package wave

import "fmt"

// Progress observes the run loop once per completed step. The loop
// passes indices only; observers never touch the field.
type Progress interface {
	Step(step, total int)
}

// LogProgress prints a console line every Every steps and on the final
// step. Zero Every defaults to 100.
type LogProgress struct {
	Every int
}

func (p LogProgress) Step(step, total int) {
	every := p.Every
	if every <= 0 {
		every = 100
	}
	if step%every == 0 || step == total-1 {
		fmt.Printf("step %8d / %8d\n", step, total-1)
	}
}

// ProgressFunc adapts a plain function to the Progress interface.
type ProgressFunc func(step, total int)

func (f ProgressFunc) Step(step, total int) { f(step, total) }
