package domain

type Product struct {
	ID          int64
	Title       string
	Price       Money
	Description string
	Category    string
	Image       string
	Rating      Rating
}

type Rating struct {
	Rate  float64
	Count int
}
