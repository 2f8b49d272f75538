package core

// Balance holds the totals for a period, split by kind.
type Balance struct {
	Income   Money
	Expenses Money
}

// Net returns income minus expenses. The result may be negative.
func (b Balance) Net() Money {
	return Money{Cents: b.Income.Cents - b.Expenses.Cents}
}

// CategoryTotal is one aggregated expense row of a category summary.
type CategoryTotal struct {
	Category string
	Total    Money
	Count    int64
}
