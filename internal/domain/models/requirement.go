package models

// RequirementLine is the join of one recipe line against current material
// stock for a proposed production batch.
type RequirementLine struct {
	MaterialID     string  `json:"material_id"`
	MaterialName   string  `json:"material_name"`
	Unit           string  `json:"unit"`
	QuantityOnHand float64 `json:"quantity_on_hand"`
	Required       float64 `json:"required"`
	Projected      float64 `json:"projected"`
	Sufficient     bool    `json:"sufficient"`
	// Missing marks a dangling recipe reference: the line points at a
	// material ID that no longer exists in the ledger. The line is kept and
	// flagged rather than dropped, and it is never sufficient.
	Missing bool `json:"missing"`
}

// Requirement is the full material breakdown for producing BatchSize units of
// a product.
type Requirement struct {
	ProductID string            `json:"product_id"`
	BatchSize int               `json:"batch_size"`
	Lines     []RequirementLine `json:"lines"`
}

// Feasible reports whether the batch can be produced without driving any
// material negative. A requirement with no lines is never feasible; a product
// without a recipe must block production rather than pass as "zero needs".
func (r Requirement) Feasible() bool {
	if len(r.Lines) == 0 {
		return false
	}
	for _, line := range r.Lines {
		if !line.Sufficient {
			return false
		}
	}
	return true
}
