package geo

import "time"

// AgeYears returns whole years elapsed between dob and today.
// The year is not counted until today's month/day reaches the birthday.
func AgeYears(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}
