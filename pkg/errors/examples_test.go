package errors_test

import (
	"fmt"

	"github.com/agentstation/flowcheck/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := errors.NewMalformedNameError("booking_date_extra", "_")

	if errors.IsMalformedName(err) {
		fmt.Println(err)
	}

	// Output: Intent name 'booking_date_extra' is not of expected format
}

// Example_sourceUnavailable demonstrates wrapping a whole-source failure.
func Example_sourceUnavailable() {
	cause := errors.NewIOError("read", "entities/brand.json", errors.New("file does not exist"))
	err := errors.WrapSource("local json", cause)

	fmt.Println(errors.IsSourceUnavailable(err))

	// Output: true
}
