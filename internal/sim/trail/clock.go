package trail

import "fmt"

type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Next returns the following day. Months are a fixed monthLength days long.
func (d Date) Next(monthLength int) Date {
	d.Day++
	if d.Day > monthLength {
		d.Day = 1
		d.Month++
		if d.Month > 12 {
			d.Month = 1
			d.Year++
		}
	}
	return d
}

func (d Date) Valid(monthLength int) bool {
	return d.Day >= 1 && d.Day <= monthLength && d.Month >= 1 && d.Month <= 12
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
