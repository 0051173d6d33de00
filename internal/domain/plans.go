package domain

// Plan describes one purchasable credit package.
type Plan struct {
	Name    string `json:"name"`
	Price   int64  `json:"price"` // major currency units
	Credits int64  `json:"credits"`
}

// Plans is the static credit-package catalog offered at checkout.
var Plans = []Plan{
	{Name: "Free", Price: 0, Credits: 20},
	{Name: "Pro Package", Price: 40, Credits: 120},
	{Name: "Premium Package", Price: 199, Credits: 2000},
}

// PlanByName returns the catalog entry matching the given name.
func PlanByName(name string) (Plan, bool) {
	for _, p := range Plans {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}
