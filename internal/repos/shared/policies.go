package shared

// ConfirmationPolicy specifies how mutating commands handle operator confirmation.
type ConfirmationPolicy int

const (
	// ConfirmationPrompt requires an explicit affirmative answer.
	ConfirmationPrompt ConfirmationPolicy = iota
	// ConfirmationAssumeYes continues without prompting.
	ConfirmationAssumeYes
)

// ConfirmationPolicyFromBool converts the assume-yes flag into a policy.
func ConfirmationPolicyFromBool(assumeYes bool) ConfirmationPolicy {
	if assumeYes {
		return ConfirmationAssumeYes
	}
	return ConfirmationPrompt
}

// ShouldPrompt reports whether the operator must be asked.
func (policy ConfirmationPolicy) ShouldPrompt() bool {
	return policy != ConfirmationAssumeYes
}
