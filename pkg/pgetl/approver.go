package pgetl

import "context"

// Approver handles user interaction for approval workflows,
// particularly for destructive operations like truncating the target table.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type the table name for confirmation
type Approver interface {
	// RequestApproval prompts for confirmation before removing every row of target.
	// Returns true if approved, false if denied.
	RequestApproval(ctx context.Context, target string) (bool, error)
}
