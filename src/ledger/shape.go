package ledger

import "pfm-server/src/models"

// Shape classifies a transaction by its (from, to) entity type pair.
// Only three pairs are legal; everything else is rejected by the
// validation gate before the engine ever sees it.
type Shape int

const (
	ShapeInvalid Shape = iota
	ShapeIncome        // CATEGORY -> ACCOUNT
	ShapeExpense       // ACCOUNT -> CATEGORY
	ShapeTransfer      // ACCOUNT -> ACCOUNT
)

func shapeOf(fromType, toType models.EntityType) Shape {
	switch {
	case fromType == models.EntityCategory && toType == models.EntityAccount:
		return ShapeIncome
	case fromType == models.EntityAccount && toType == models.EntityCategory:
		return ShapeExpense
	case fromType == models.EntityAccount && toType == models.EntityAccount:
		return ShapeTransfer
	default:
		return ShapeInvalid
	}
}
