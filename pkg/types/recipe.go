package types

// DateLayout is the accepted format for Recipe.DatePublished.
const DateLayout = "2006-01-02"

// Recipe is the single entity managed by the service. ID is assigned by the
// store on creation and never changes afterwards. All other fields are
// replaced wholesale on update.
//
// DatePublished, PrepTime and CookTime are string typed on the wire;
// DatePublished must match DateLayout, the two durations are opaque
// non-empty strings (for example "00:05").
type Recipe struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name" validate:"required"`
	DatePublished string    `json:"datePublished" validate:"required,datetime=2006-01-02"`
	Description   string    `json:"description" validate:"required,min=10,max=500"`
	Rating        *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	PrepTime      string    `json:"prepTime" validate:"required"`
	CookTime      string    `json:"cookTime" validate:"required"`
	Ingredients   []string  `json:"ingredients" validate:"required,min=1,dive,required"`
	Instructions  []string  `json:"instructions" validate:"required,min=1,dive,required"`
	Nutrition     Nutrition `json:"nutrition" validate:"required"`
}

// Nutrition is the required nested nutrition block of a Recipe.
type Nutrition struct {
	ServingSize string  `json:"servingSize" validate:"required"`
	Calories    float64 `json:"calories"`
}

// Clone returns a deep copy of the recipe. Stores hand out clones so callers
// can never alias backend-held state.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Rating != nil {
		v := *r.Rating
		out.Rating = &v
	}
	if r.Ingredients != nil {
		out.Ingredients = append([]string(nil), r.Ingredients...)
	}
	if r.Instructions != nil {
		out.Instructions = append([]string(nil), r.Instructions...)
	}
	return out
}
