package wizard

// Flow is one of the counter's transaction wizards.
type Flow int

const (
	// FlowDelivery hands a paid vignette over: Lookup -> Confirm -> Deliver.
	FlowDelivery Flow = iota
	// FlowSale sells a vignette for a registered plate: PlateEntry -> Payment -> Confirmation.
	FlowSale
)

// Step indices are 1-based and shared by both flows.
const (
	StepFirst  = 1
	StepSecond = 2
	StepFinal  = 3
)

func (f Flow) String() string {
	switch f {
	case FlowDelivery:
		return "delivery"
	case FlowSale:
		return "sale"
	}

	return "unknown"
}

// StepNames lists the human names of the flow's steps in order.
func (f Flow) StepNames() []string {
	switch f {
	case FlowDelivery:
		return []string{"Recherche", "Confirmation", "Délivrance"}
	case FlowSale:
		return []string{"Plaque", "Paiement", "Confirmation"}
	}

	return nil
}

// Len is the number of steps in the flow.
func (f Flow) Len() int {
	return len(f.StepNames())
}
