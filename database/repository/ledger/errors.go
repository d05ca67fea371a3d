package ledgerRepo

import (
	"fmt"
	"strings"
)

// CapacityError reports the slots that blocked an all-or-nothing hold. It is
// recoverable: the caller re-renders slot selection with the conflict list.
type CapacityError struct {
	Slots []string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded for slots: %s", strings.Join(e.Slots, ", "))
}
