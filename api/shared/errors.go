/* errors.go
 * Contains the typed error kinds the core surfaces to callers. Collaborators
 * branch on these with errors.As rather than string matching
 */

package shared

import "fmt"

// NotFoundError indicates no matchup, tournament or bracket matched the
// identifier.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError indicates a write that contradicts the bracket structure,
// e.g. a winner that is not one of the matchup's teams.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PreconditionError is returned when analysis is requested before the field
// has been cut to 16 teams. It carries the data callers surface to users
// instead of treating the condition as exceptional.
type PreconditionError struct {
	Code        string `json:"error"`
	ActiveTeams int    `json:"activeTeams"`
	Message     string `json:"message"`
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// NewNeedsSweet16 builds the standard precondition error for an analysis
// attempted with more than 16 active teams.
func NewNeedsSweet16(activeTeams int) *PreconditionError {
	return &PreconditionError{
		Code:        "needsSweet16",
		ActiveTeams: activeTeams,
		Message:     fmt.Sprintf("analysis requires 16 or fewer active teams, found %d", activeTeams),
	}
}

// CancelledError indicates cooperative cancellation; the partial report is
// attached for callers that want it.
type CancelledError struct {
	Message string
}

func (e *CancelledError) Error() string {
	return e.Message
}

// InternalError indicates an invariant violation such as a propagation
// dead-end. It is fatal to the current analysis only.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return e.Message
}
