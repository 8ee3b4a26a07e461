package state

import "fmt"

// A labeled move from one state to its successor.
type Transition[S any] struct {
	// Human readable description of the action
	Label string
	Next  S
}

func (t Transition[S]) String() string {
	return fmt.Sprintf("%v\t%v", t.Label, t.Next)
}

// Create a Transition with the provided label.
//
// Convenience for models building their successor slices.
func To[S any](label string, next S) Transition[S] {
	return Transition[S]{
		Label: label,
		Next:  next,
	}
}
