package entity

type Restaurant struct {
	ID      string   `db:"id"`
	Name    string   `db:"name"`
	Phone   string   `db:"phone"`
	Address string   `db:"address"`
	Lat     *float64 `db:"lat"`
	Lng     *float64 `db:"lng"`
}

type Customer struct {
	ID       string `db:"id"`
	FullName string `db:"full_name"`
	Phone    string `db:"phone"`
}
